package login

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"liamed-backend/migrations"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// Claims carried inside the session token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// blacklist for manual logout (jti -> expiry). Not persisted; acceptable for MVP.
var (
	blacklistMu sync.Mutex
	blacklist   = map[string]time.Time{}
)

func blacklistToken(jti string, exp time.Time) {
	blacklistMu.Lock()
	defer blacklistMu.Unlock()
	blacklist[jti] = exp
}

func tokenBlacklisted(jti string) bool {
	blacklistMu.Lock()
	defer blacklistMu.Unlock()
	exp, blocked := blacklist[jti]
	return blocked && exp.After(time.Now())
}

func sessionDuration(remember bool) time.Duration {
	defHours := 12
	if v := os.Getenv("SESSION_DEFAULT_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			defHours = n
		}
	}
	remDays := 30
	if v := os.Getenv("SESSION_REMEMBER_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			remDays = n
		}
	}
	if remember {
		return time.Hour * 24 * time.Duration(remDays)
	}
	return time.Hour * time.Duration(defHours)
}

func sessionSecret() []byte {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		s = "dev-insecure-secret"
	}
	return []byte(s)
}

func signToken(u *migrations.User, dur time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(dur)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sessionSecret())
}

func parseToken(token string) (*Claims, bool) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return sessionSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, false
	}
	if tokenBlacklisted(claims.ID) {
		return nil, false
	}
	return &claims, true
}

// Handler authenticates a user and issues a session token.
func Handler(c *gin.Context) {
	var creds Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetros inválidos"})
		return
	}
	user := migrations.GetUserByEmail(strings.TrimSpace(creds.Email))
	if user == nil || user.Password != creds.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "credenciais inválidas"})
		return
	}
	if user.Status != "ATIVO" {
		c.JSON(http.StatusForbidden, gin.H{"error": "usuário inativo"})
		return
	}
	dur := sessionDuration(creds.Remember)
	token, err := signToken(user, dur)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao gerar token"})
		return
	}
	log.Info().Str("user", user.Email).Msg("login ok")
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Logout invalidates the presented token until its natural expiry.
func Logout(c *gin.Context) {
	raw := bearerToken(c)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token não fornecido"})
		return
	}
	if claims, ok := parseToken(raw); ok {
		blacklistToken(claims.ID, claims.ExpiresAt.Time)
	}
	c.Status(http.StatusNoContent)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth validates the bearer token and loads the user into the context
// under the "user" key.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "acesso negado, token não fornecido"})
			return
		}
		claims, ok := parseToken(raw)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token inválido ou expirado"})
			return
		}
		user := migrations.GetUserByID(claims.Subject)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "usuário não encontrado"})
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != "ADMIN" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "requer privilégios de administrador"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *migrations.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	u, _ := v.(*migrations.User)
	return u
}
