package endpoints

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo   *Repository
	client *http.Client
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo, client: &http.Client{Timeout: 15 * time.Second}}
}

// RegisterRoutes wires the endpoint admin CRUD plus the connection probe.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/endpoints", h.List)
	r.POST("/endpoints", h.Create)
	r.PUT("/endpoints/:id", h.Update)
	r.DELETE("/endpoints/:id", h.Delete)
	r.POST("/endpoints/test", h.TestConnection)
}

type endpointReq struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Method   string `json:"method"`
	AuthType string `json:"authType"`
	Token    string `json:"token"`
	Status   string `json:"status"`
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao listar endpoints"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) Create(c *gin.Context) {
	var req endpointReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetros inválidos"})
		return
	}
	e, err := h.repo.Create(req.Name, req.URL, req.Method, req.AuthType, req.Token, req.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao criar endpoint"})
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) Update(c *gin.Context) {
	var req endpointReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetros inválidos"})
		return
	}
	e, err := h.repo.Update(c.Param("id"), req.Name, req.URL, req.Method, req.AuthType, req.Token, req.Status)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "endpoint não encontrado"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao atualizar endpoint"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao remover endpoint"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "endpoint removido"})
}

// TestConnection probes a candidate configuration without saving it and
// reports reachability plus latency.
func (h *Handler) TestConnection(c *gin.Context) {
	var req endpointReq
	if err := c.ShouldBindJSON(&req); err != nil || !strings.HasPrefix(req.URL, "http") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "URL inválida"})
		return
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body *bytes.Reader
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		// OpenAI rejects empty chat bodies with 400; send a minimal ping so a
		// valid key answers 200.
		if strings.Contains(req.URL, "api.openai.com") && strings.Contains(req.URL, "chat/completions") {
			ping, _ := json.Marshal(map[string]any{
				"model":      "gpt-3.5-turbo",
				"messages":   []map[string]string{{"role": "user", "content": "Ping"}},
				"max_tokens": 1,
			})
			body = bytes.NewReader(ping)
		} else {
			probe, _ := json.Marshal(map[string]string{"test": "connection_verify"})
			body = bytes.NewReader(probe)
		}
	default:
		body = bytes.NewReader(nil)
	}

	httpReq, err := http.NewRequestWithContext(c.Request.Context(), method, req.URL, body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "URL inválida"})
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "LiaMed-System/1.0")
	ApplyAuth(httpReq.Header, req.AuthType, req.Token)

	start := time.Now()
	resp, err := h.client.Do(httpReq)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": fmt.Sprintf("falha na conexão: %v", err)})
		return
	}
	defer resp.Body.Close()
	latency := time.Since(start).Milliseconds()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("conectado: %s", resp.Status), "latency": latency})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": false, "message": fmt.Sprintf("erro remoto: %s", resp.Status), "latency": latency})
}
