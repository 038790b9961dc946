package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vivekkumar9751/smart-doc-assistant/models"
	"github.com/vivekkumar9751/smart-doc-assistant/services"
	"github.com/vivekkumar9751/smart-doc-assistant/store"
	"github.com/vivekkumar9751/smart-doc-assistant/utils"
)

const previewLimit = 500

// DocumentController maps the HTTP surface onto the assistant service and
// the shared document store.
type DocumentController struct {
	assistant *services.Assistant
	docs      *store.DocumentStore
	logger    *zap.Logger

	maxUploadBytes int64
	provider       string
	model          string
}

func NewDocumentController(assistant *services.Assistant, docs *store.DocumentStore, logger *zap.Logger, maxUploadBytes int64, provider, model string) *DocumentController {
	return &DocumentController{
		assistant:      assistant,
		docs:           docs,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
		provider:       provider,
		model:          model,
	}
}

type questionRequest struct {
	Question string `json:"question" binding:"required"`
}

type evaluateRequest struct {
	Responses []models.QAPair `json:"responses" binding:"required"`
}

// Upload accepts a PDF or TXT file, extracts its text, summarizes it, and
// installs it as the active document.
func (dc *DocumentController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided: " + err.Error()})
		return
	}
	if dc.maxUploadBytes > 0 && fileHeader.Size > dc.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("File too large. Maximum size is %dMB.", dc.maxUploadBytes>>20)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file."})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file."})
		return
	}

	dc.logger.Info("processing upload",
		zap.String("filename", fileHeader.Filename),
		zap.Int("bytes", len(data)))

	var text string
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".pdf":
		text, err = utils.ExtractPDFText(data)
	case ".txt":
		text, err = utils.ExtractPlainText(data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type. Please upload PDF or TXT."})
		return
	}
	if err != nil {
		dc.logger.Warn("extraction failed", zap.String("filename", fileHeader.Filename), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The file appears to be empty or unreadable."})
		return
	}

	summary, err := dc.assistant.Summarize(c.Request.Context(), text)
	if err != nil {
		// The upload itself succeeded; keep the document and degrade the
		// summary rather than failing the whole request.
		dc.logger.Warn("summary generation failed", zap.Error(err))
		summary = services.FallbackMarker + " Summary generation failed: " + completionFailureMessage(err)
	}

	docID := dc.docs.Replace(text, summary)
	dc.logger.Info("document installed",
		zap.String("documentId", docID),
		zap.Int("chars", len(text)))

	c.JSON(http.StatusOK, gin.H{
		"message":      "File uploaded and processed successfully.",
		"documentId":   docID,
		"documentSize": fmt.Sprintf("%d characters", len(text)),
		"summary":      summary,
		"preview":      preview(text),
	})
}

// GetDocument returns a preview of the active document and its summary.
func (dc *DocumentController) GetDocument(c *gin.Context) {
	snap, ok := dc.docs.Current()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No document uploaded yet."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"documentId": snap.ID,
		"document":   preview(snap.Text),
		"summary":    snap.Summary,
		"uploadedAt": snap.UploadedAt,
	})
}

// Ask answers a free-form question about the active document.
func (dc *DocumentController) Ask(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question must not be empty."})
		return
	}

	snap, ok := dc.docs.Current()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No document uploaded yet."})
		return
	}

	answer, err := dc.assistant.Answer(c.Request.Context(), snap.Text, req.Question)
	if err != nil {
		dc.renderCompletionFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"question": req.Question,
		"answer":   answer,
	})
}

// Challenge generates three comprehension questions for the active document
// and caches them for later evaluation.
func (dc *DocumentController) Challenge(c *gin.Context) {
	snap, ok := dc.docs.Current()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No document uploaded yet."})
		return
	}

	questions, err := dc.assistant.GenerateChallenge(c.Request.Context(), snap.Text)
	if err != nil {
		dc.renderCompletionFailure(c, err)
		return
	}
	dc.docs.SetQuestions(snap.ID, questions)

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// Evaluate grades the submitted answers against the active document.
func (dc *DocumentController) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	snap, ok := dc.docs.Current()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No document uploaded yet."})
		return
	}

	feedback, err := dc.assistant.EvaluateAnswers(c.Request.Context(), snap.Text, req.Responses)
	if err != nil {
		dc.renderCompletionFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

// Health reports basic liveness.
func (dc *DocumentController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "API is running"})
}

// HealthLLM reports which completion provider is configured.
func (dc *DocumentController) HealthLLM(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"provider": dc.provider,
		"model":    dc.model,
	})
}

// renderCompletionFailure maps a typed completion failure onto an HTTP
// status, mirroring the provider condition for the client.
func (dc *DocumentController) renderCompletionFailure(c *gin.Context, err error) {
	dc.logger.Error("completion failure", zap.Error(err))

	var cerr *services.CompletionError
	if !errors.As(err, &cerr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected error while calling the model."})
		return
	}

	switch cerr.Kind {
	case services.FailureQuotaExceeded:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Model quota exceeded. Please check your provider billing."})
	case services.FailureInvalidCredential:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid model API credential. Please check the configured key."})
	case services.FailureRateLimited:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limited by the model provider. Please wait a moment and try again."})
	case services.FailureTimeout:
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "The model did not respond in time. Please try again."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while calling the model."})
	}
}

func completionFailureMessage(err error) string {
	var cerr *services.CompletionError
	if errors.As(err, &cerr) {
		return cerr.Message
	}
	return err.Error()
}

func preview(text string) string {
	if len(text) > previewLimit {
		return services.Truncate(text, previewLimit) + "..."
	}
	return text
}
