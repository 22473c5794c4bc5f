package audit

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	db *sql.DB
}

func NewHandler(db *sql.DB) *Handler { return &Handler{db: db} }

// List returns the most recent audit entries, newest first. Admin only
// (enforced by route middleware).
func (h *Handler) List(c *gin.Context) {
	rows, err := h.db.Query(`SELECT id, user_id, user_name, action, resource, IFNULL(resource_id,''), IFNULL(details,''), ip_address, user_agent, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT 200`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao listar auditoria"})
		return
	}
	defer rows.Close()

	list := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var rawDetails string
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserName, &e.Action, &e.Resource, &e.ResourceID, &rawDetails, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao listar auditoria"})
			return
		}
		if rawDetails != "" {
			_ = json.Unmarshal([]byte(rawDetails), &e.Details)
		}
		list = append(list, e)
	}
	c.JSON(http.StatusOK, list)
}
