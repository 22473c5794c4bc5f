package consults

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"liamed-backend/audit"
	"liamed-backend/login"
)

type Handler struct {
	repo    *Repository
	auditor *audit.Logger
}

func NewHandler(repo *Repository, auditor *audit.Logger) *Handler {
	return &Handler{repo: repo, auditor: auditor}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/consults", h.List)
	r.POST("/consults", h.Create)
	r.GET("/consults/stats", h.Stats)
	r.PATCH("/consults/:id/status", h.UpdateStatus)
}

// List shows all consults to admins and only the doctor's own otherwise.
func (h *Handler) List(c *gin.Context) {
	user := login.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "acesso negado"})
		return
	}
	doctorID := user.ID
	if user.Role == "ADMIN" {
		doctorID = ""
	}
	list, err := h.repo.ListForDoctor(doctorID, c.Query("status"), c.Query("type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao listar consultas"})
		return
	}
	c.JSON(http.StatusOK, list)
}

type createReq struct {
	PatientName string    `json:"patientName"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
}

func (h *Handler) Create(c *gin.Context) {
	user := login.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "acesso negado"})
		return
	}
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || req.PatientName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetros inválidos"})
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}
	co, err := h.repo.Create(req.PatientName, user.ID, req.Date, req.Type)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao criar consulta"})
		return
	}
	h.auditor.Log(c, user.ID, user.Name, "CREATE", "CONSULT", co.ID,
		map[string]any{"patientName": co.PatientName, "type": co.Type})
	c.JSON(http.StatusCreated, co)
}

func (h *Handler) Stats(c *gin.Context) {
	user := login.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "acesso negado"})
		return
	}
	doctorID := user.ID
	if user.Role == "ADMIN" {
		doctorID = ""
	}
	stats, err := h.repo.Stats(doctorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao buscar estatísticas"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type statusReq struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	user := login.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "acesso negado"})
		return
	}
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetros inválidos"})
		return
	}
	switch req.Status {
	case StatusScheduled, StatusCompleted, StatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status inválido"})
		return
	}
	co, err := h.repo.ByID(c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "consulta não encontrada"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao atualizar consulta"})
		return
	}
	if user.Role != "ADMIN" && co.DoctorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "acesso negado"})
		return
	}
	err = h.repo.UpdateStatus(co.ID, req.Status)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "consulta não encontrada"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao atualizar consulta"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status atualizado"})
}
