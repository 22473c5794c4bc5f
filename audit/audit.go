// Package audit appends immutable audit trail entries. Writes are strictly
// best-effort: a failed audit write is logged and discarded so it can never
// abort the action being audited.
package audit

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Entry struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	UserName   string         `json:"userName"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID string         `json:"resourceId,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ipAddress"`
	UserAgent  string         `json:"userAgent"`
	CreatedAt  time.Time      `json:"createdAt"`
}

var sensitiveKeys = []string{"password", "token", "creditcard", "cvv"}

func redact(details map[string]any) map[string]any {
	if details == nil {
		return nil
	}
	out := make(map[string]any, len(details))
	for k, v := range details {
		lower := strings.ToLower(k)
		hidden := false
		for _, s := range sensitiveKeys {
			if strings.Contains(lower, s) {
				hidden = true
				break
			}
		}
		if hidden {
			out[k] = "[REDACTED]"
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = redact(nested)
			continue
		}
		out[k] = v
	}
	return out
}

type Logger struct {
	db *sql.DB
}

func NewLogger(db *sql.DB) *Logger { return &Logger{db: db} }

// Log writes one audit entry. It never returns an error; failures are logged
// and dropped so the parent operation continues.
func (l *Logger) Log(c *gin.Context, userID, userName, action, resource, resourceID string, details map[string]any) {
	ip := "unknown"
	agent := "unknown"
	if c != nil {
		if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
			ip = fwd
		} else if c.ClientIP() != "" {
			ip = c.ClientIP()
		}
		if ua := c.GetHeader("User-Agent"); ua != "" {
			agent = ua
		}
	}

	var detailsJSON any
	if safe := redact(details); safe != nil {
		b, err := json.Marshal(safe)
		if err == nil {
			detailsJSON = string(b)
		}
	}

	var resID any
	if resourceID != "" {
		resID = resourceID
	}

	_, err := l.db.Exec(
		"INSERT INTO audit_logs (id, user_id, user_name, action, resource, resource_id, details, ip_address, user_agent) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		uuid.NewString(), userID, userName, action, resource, resID, detailsJSON, ip, agent,
	)
	if err != nil {
		log.Warn().Err(err).Str("action", action).Str("resource", resource).Msg("audit write failed, continuing")
		return
	}
	log.Info().Str("user", userName).Str("action", action).Str("resource", resource).Msg("audit")
}
