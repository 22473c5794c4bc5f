package login

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"liamed-backend/migrations"
)

func TestTokenRoundTrip(t *testing.T) {
	u := &migrations.User{ID: "u-1", Email: "doc@liamed.local", Role: "MEDICO"}
	tok, err := signToken(u, time.Hour)
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	claims, ok := parseToken(tok)
	if !ok {
		t.Fatal("freshly signed token must parse")
	}
	if claims.Subject != "u-1" || claims.Email != "doc@liamed.local" || claims.Role != "MEDICO" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	u := &migrations.User{ID: "u-1", Email: "doc@liamed.local"}
	tok, err := signToken(u, -time.Minute)
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	if _, ok := parseToken(tok); ok {
		t.Fatal("expired token must be rejected")
	}
}

func TestBlacklistedTokenRejected(t *testing.T) {
	u := &migrations.User{ID: "u-2", Email: "doc2@liamed.local"}
	tok, err := signToken(u, time.Hour)
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	claims, ok := parseToken(tok)
	if !ok {
		t.Fatal("token must parse before logout")
	}
	blacklistToken(claims.ID, claims.ExpiresAt.Time)
	defer delete(blacklist, claims.ID)
	if _, ok := parseToken(tok); ok {
		t.Fatal("blacklisted token must be rejected")
	}
}

func TestBlacklistConcurrentAccess(t *testing.T) {
	u := &migrations.User{ID: "u-3", Email: "doc3@liamed.local"}
	tok, err := signToken(u, time.Hour)
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			blacklistToken("jti-"+strconv.Itoa(n), time.Now().Add(time.Hour))
		}(i)
		go func() {
			defer wg.Done()
			parseToken(tok)
		}()
	}
	wg.Wait()
	for i := 0; i < 50; i++ {
		delete(blacklist, "jti-"+strconv.Itoa(i))
	}
}

func TestRequireAuthWithoutToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token should get 401, got %d", w.Code)
	}
}
