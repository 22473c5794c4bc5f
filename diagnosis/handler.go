package diagnosis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"liamed-backend/audit"
	"liamed-backend/consults"
	"liamed-backend/endpoints"
	"liamed-backend/files"
	"liamed-backend/login"
	"liamed-backend/prompts"
)

// Narrow collaborator interfaces so the orchestration can be exercised
// without a database.
type DiagnosisStore interface {
	Create(d *Diagnosis) error
	SetConsultID(id, consultID string) error
	ListForDoctor(doctorID, search string) ([]Diagnosis, error)
	ByID(id string) (*Diagnosis, error)
	Delete(id string) error
}

type ConsultStore interface {
	CreateCompleted(patientName, doctorID string) (consults.Consult, error)
}

type EndpointSource interface {
	ByID(id string) (*endpoints.Endpoint, error)
}

type PromptSource interface {
	ActiveByCategory(category string) (*prompts.Prompt, error)
}

type Handler struct {
	diagnoses DiagnosisStore
	consults  ConsultStore
	endpoints EndpointSource
	prompts   PromptSource
	auditor   *audit.Logger
	client    *http.Client

	// systemKey is the deployment-wide OpenAI credential, passed in
	// explicitly instead of read from ambient state.
	systemKey string
	uploadDir string
}

func NewHandler(d DiagnosisStore, co ConsultStore, ep EndpointSource, pr PromptSource, auditor *audit.Logger, systemKey, uploadDir string) *Handler {
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	return &Handler{
		diagnoses: d,
		consults:  co,
		endpoints: ep,
		prompts:   pr,
		auditor:   auditor,
		client:    &http.Client{Timeout: 60 * time.Second},
		systemKey: systemKey,
		uploadDir: uploadDir,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/diagnoses", h.List)
	r.POST("/diagnoses", h.Create)
	r.DELETE("/diagnoses/:id", h.Delete)
}

// Create runs one full diagnosis pass: intake, exam extraction, prompt
// assembly, provider resolution, dispatch, persistence, consult linkage and
// audit. A failed provider call never fails the request; the error text
// becomes the stored answer.
func (h *Handler) Create(c *gin.Context) {
	user := login.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "acesso negado"})
		return
	}

	patientName := strings.TrimSpace(c.PostForm("patientName"))
	userPrompt := strings.TrimSpace(c.PostForm("userPrompt"))
	complementaryData := strings.TrimSpace(c.PostForm("complementaryData"))
	if patientName == "" || userPrompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patientName e userPrompt são obrigatórios"})
		return
	}

	req := Request{
		PatientName:       patientName,
		UserPrompt:        userPrompt,
		ComplementaryData: complementaryData,
		Exams:             h.saveExams(c),
	}

	var userEndpoint *endpoints.Endpoint
	if user.EndpointID.Valid && user.EndpointID.String != "" {
		ep, err := h.endpoints.ByID(user.EndpointID.String)
		if err != nil {
			log.Warn().Err(err).Str("doctor", user.ID).Msg("endpoint lookup failed, falling back")
		} else {
			userEndpoint = ep
		}
	}
	res := Resolve(userEndpoint, h.systemKey)

	active, err := h.prompts.ActiveByCategory(prompts.CategoryDiagnostic)
	if err != nil {
		// No active template is a fallback condition, not an error.
		log.Warn().Err(err).Msg("prompt registry lookup failed, using fallback instruction")
		active = nil
	}
	systemInstruction := SystemInstruction(active, user.CustomPrompt.String)
	userMessage := AssembleUserMessage(req)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 90*time.Second)
	defer cancel()
	answer := h.dispatch(ctx, res, systemInstruction, userMessage, req)

	d := &Diagnosis{
		DoctorID:          user.ID,
		PatientName:       patientName,
		UserPrompt:        userPrompt,
		ComplementaryData: complementaryData,
		Exams:             req.Exams,
		AIResponse:        answer,
		Model:             string(res.Tier),
	}
	if err := h.diagnoses.Create(d); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao salvar diagnóstico"})
		return
	}

	// A diagnosis implies an encounter happened: record the completed consult
	// and link it before answering.
	consult, err := h.consults.CreateCompleted(patientName, user.ID)
	if err != nil {
		log.Error().Err(err).Str("diagnosis", d.ID).Msg("consult auto-create failed")
	} else {
		if err := h.diagnoses.SetConsultID(d.ID, consult.ID); err != nil {
			log.Error().Err(err).Str("diagnosis", d.ID).Msg("consult link failed")
		} else {
			d.ConsultID = consult.ID
		}
	}

	if h.auditor != nil {
		h.auditor.Log(c, user.ID, user.Name, "CREATE", "DIAGNOSIS", d.ID,
			map[string]any{"model": d.Model, "consultId": d.ConsultID})
	}
	diagnosesTotal.WithLabelValues(string(res.Tier)).Inc()
	c.JSON(http.StatusOK, d)
}

// saveExams stores each uploaded exam on disk and extracts its text. Every
// exam is processed independently; extraction problems become sentinel text
// inside the exam descriptor.
func (h *Handler) saveExams(c *gin.Context) []Exam {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	uploads := form.File["exams"]
	if len(uploads) == 0 {
		return nil
	}
	_ = os.MkdirAll(h.uploadDir, 0o755)
	exams := make([]Exam, 0, len(uploads))
	for _, up := range uploads {
		stored := uuid.NewString() + filepath.Ext(up.Filename)
		path := filepath.Join(h.uploadDir, stored)
		if err := c.SaveUploadedFile(up, path); err != nil {
			log.Warn().Err(err).Str("file", up.Filename).Msg("exam save failed")
			continue
		}
		mime := up.Header.Get("Content-Type")
		exams = append(exams, Exam{
			OriginalName:  up.Filename,
			Filename:      stored,
			Path:          path,
			MimeType:      mime,
			Size:          up.Size,
			ExtractedText: files.ExamText(path, mime, up.Filename),
		})
	}
	return exams
}

// dispatch executes the resolved provider call. It always returns answer
// text: provider failures degrade to a labeled error message.
func (h *Handler) dispatch(ctx context.Context, res Resolution, systemInstruction, userMessage string, req Request) string {
	if res.Tier == TierSimulated {
		return Simulate(req.UserPrompt)
	}

	answer, err := h.callProvider(ctx, res, systemInstruction, userMessage, req)
	if err == nil {
		return answer
	}
	dispatchErrors.Inc()
	log.Error().Err(err).Str("tier", string(res.Tier)).Msg("provider dispatch failed")
	if res.Tier == TierCustom {
		return fmt.Sprintf("Erro ao consultar IA personalizada: %v", err)
	}
	return fmt.Sprintf("Erro ao consultar OpenAI do sistema: %v", err)
}

func (h *Handler) callProvider(ctx context.Context, res Resolution, systemInstruction, userMessage string, req Request) (string, error) {
	httpReq, err := BuildRequest(ctx, res, systemInstruction, userMessage, req)
	if err != nil {
		return "", err
	}
	resp, err := h.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return Interpret(resp.StatusCode, body)
}

// List shows the latest diagnoses: all for admins, own for doctors, with an
// optional patient/narrative search.
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
	list, err := h.diagnoses.ListForDoctor(doctorID, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao listar diagnósticos"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Delete removes a diagnosis; only the owning doctor or an admin may do it.
func (h *Handler) Delete(c *gin.Context) {
	user := login.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "acesso negado"})
		return
	}
	id := c.Param("id")
	d, err := h.diagnoses.ByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao buscar diagnóstico"})
		return
	}
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "diagnóstico não encontrado"})
		return
	}
	if user.Role != "ADMIN" && d.DoctorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "acesso negado"})
		return
	}
	if err := h.diagnoses.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao remover diagnóstico"})
		return
	}
	if h.auditor != nil {
		h.auditor.Log(c, user.ID, user.Name, "DELETE", "DIAGNOSIS", id, nil)
	}
	c.JSON(http.StatusOK, gin.H{"message": "diagnóstico removido com sucesso"})
}
