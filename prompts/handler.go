package prompts

import (
	"net/http"

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

// RegisterRoutes wires the prompt registry admin endpoints.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/prompts", h.List)
	r.POST("/prompts", h.Create)
	r.PUT("/prompts/:id", h.Update)
	r.DELETE("/prompts/:id", h.Delete)
}

type promptReq struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Content  string `json:"content"`
	IsActive *bool  `json:"isActive"`
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao buscar prompts"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) Create(c *gin.Context) {
	var req promptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetros inválidos"})
		return
	}
	if req.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "categoria é obrigatória"})
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p, err := h.repo.Create(req.Name, req.Category, req.Content, active)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao criar prompt"})
		return
	}
	if user := login.CurrentUser(c); user != nil {
		h.auditor.Log(c, user.ID, user.Name, "CREATE", "PROMPT", p.ID,
			map[string]any{"name": p.Name, "category": p.Category})
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	var req promptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetros inválidos"})
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p, err := h.repo.Update(id, req.Name, req.Category, req.Content, active)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao atualizar prompt"})
		return
	}
	if user := login.CurrentUser(c); user != nil {
		h.auditor.Log(c, user.ID, user.Name, "UPDATE", "PROMPT", id,
			map[string]any{"name": p.Name, "category": p.Category})
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.repo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao remover prompt"})
		return
	}
	if user := login.CurrentUser(c); user != nil {
		h.auditor.Log(c, user.ID, user.Name, "DELETE", "PROMPT", id, nil)
	}
	c.JSON(http.StatusOK, gin.H{"message": "prompt removido com sucesso"})
}
