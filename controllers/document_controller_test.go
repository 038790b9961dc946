package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vivekkumar9751/smart-doc-assistant/controllers"
	"github.com/vivekkumar9751/smart-doc-assistant/models"
	"github.com/vivekkumar9751/smart-doc-assistant/routes"
	"github.com/vivekkumar9751/smart-doc-assistant/services"
	"github.com/vivekkumar9751/smart-doc-assistant/store"
)

type scriptedTransport struct {
	replies []string
	calls   int
}

func (s *scriptedTransport) Complete(ctx context.Context, req services.CompletionRequest) (string, error) {
	s.calls++
	if s.calls <= len(s.replies) {
		return s.replies[s.calls-1], nil
	}
	return "ok", nil
}

func (s *scriptedTransport) Name() string { return "scripted" }

func newTestRouter(replies ...string) (*gin.Engine, *scriptedTransport) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	transport := &scriptedTransport{replies: replies}
	llm := services.NewResilientClient(transport, "test-model", 3, time.Millisecond, logger)
	assistant := services.NewAssistant(llm, logger)
	docs := store.NewDocumentStore()
	dc := controllers.NewDocumentController(assistant, docs, logger, 50<<20, "scripted", "test-model")

	router := gin.New()
	routes.SetupDocumentRoutes(router, dc)
	return router, transport
}

func uploadTxt(t *testing.T, router *gin.Engine, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func postJSON(router *gin.Engine, path, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadTxtAndGetDocument(t *testing.T) {
	router, _ := newTestRouter("A short summary.")

	rec := uploadTxt(t, router, "doc.txt", "Go is a statically typed language.")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var uploadResp struct {
		DocumentID string `json:"documentId"`
		Summary    string `json:"summary"`
		Preview    string `json:"preview"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &uploadResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if uploadResp.Summary != "A short summary." {
		t.Errorf("unexpected summary %q", uploadResp.Summary)
	}
	if uploadResp.DocumentID == "" {
		t.Error("expected a document ID")
	}
	if !strings.Contains(uploadResp.Preview, "Go is a statically typed") {
		t.Errorf("unexpected preview %q", uploadResp.Preview)
	}

	rec = get(router, "/doc")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), uploadResp.DocumentID) {
		t.Error("document response should carry the upload's document ID")
	}
}

func TestUploadUnsupportedFileType(t *testing.T) {
	router, transport := newTestRouter()

	rec := uploadTxt(t, router, "doc.docx", "content")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if transport.calls != 0 {
		t.Errorf("no model call expected for a rejected upload, got %d", transport.calls)
	}
}

func TestUploadEmptyFile(t *testing.T) {
	router, _ := newTestRouter()

	rec := uploadTxt(t, router, "doc.txt", "   \n ")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty file, got %d", rec.Code)
	}
}

func TestAskWithoutDocument(t *testing.T) {
	router, _ := newTestRouter()

	rec := postJSON(router, "/ask", `{"question":"anything?"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a document, got %d", rec.Code)
	}
}

func TestAskFlow(t *testing.T) {
	router, _ := newTestRouter("summary", "Go was designed at Google.")

	if rec := uploadTxt(t, router, "doc.txt", "Go was designed at Google in 2007."); rec.Code != http.StatusOK {
		t.Fatalf("upload failed: %d", rec.Code)
	}

	rec := postJSON(router, "/ask", `{"question":"Where was Go designed?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Question != "Where was Go designed?" {
		t.Errorf("question not echoed, got %q", resp.Question)
	}
	if resp.Answer != "Go was designed at Google." {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
}

func TestAskBlankQuestion(t *testing.T) {
	router, _ := newTestRouter("summary")

	if rec := uploadTxt(t, router, "doc.txt", "content here"); rec.Code != http.StatusOK {
		t.Fatalf("upload failed: %d", rec.Code)
	}

	rec := postJSON(router, "/ask", `{"question":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank question, got %d", rec.Code)
	}
}

func TestChallengeReturnsExactlyThree(t *testing.T) {
	challengeText := `Question 1: What is Go?
A) A language
B) A fish
C) A game
D) A city
Correct Answer: A`
	router, _ := newTestRouter("summary", challengeText)

	if rec := uploadTxt(t, router, "doc.txt", "Go is a language."); rec.Code != http.StatusOK {
		t.Fatalf("upload failed: %d", rec.Code)
	}

	rec := get(router, "/challenge")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Questions []models.ChallengeQuestion `json:"questions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Questions) != 3 {
		t.Fatalf("expected exactly 3 questions, got %d", len(resp.Questions))
	}
	if resp.Questions[0].Question != "What is Go?" {
		t.Errorf("parsed question must come first, got %+v", resp.Questions[0])
	}
	if resp.Questions[0].CorrectAnswer != "a" {
		t.Errorf("expected correct answer a, got %q", resp.Questions[0].CorrectAnswer)
	}
}

func TestEvaluateBlankAnswer(t *testing.T) {
	router, transport := newTestRouter("summary")

	if rec := uploadTxt(t, router, "doc.txt", "content here"); rec.Code != http.StatusOK {
		t.Fatalf("upload failed: %d", rec.Code)
	}
	callsAfterUpload := transport.calls

	rec := postJSON(router, "/evaluate", `{"responses":[{"question":"Q?","answer":""}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Feedback []models.EvaluationFeedback `json:"feedback"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Feedback) != 1 {
		t.Fatalf("expected 1 feedback record, got %d", len(resp.Feedback))
	}
	if !strings.Contains(resp.Feedback[0].Evaluation, "Please provide an answer") {
		t.Errorf("expected fixed empty-answer feedback, got %q", resp.Feedback[0].Evaluation)
	}
	if transport.calls != callsAfterUpload {
		t.Errorf("no model call expected for a blank answer, got %d extra", transport.calls-callsAfterUpload)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter()

	if rec := get(router, "/health"); rec.Code != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", rec.Code)
	}
	rec := get(router, "/health/llm")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health/llm, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "scripted") {
		t.Errorf("llm health should name the provider, got %s", rec.Body.String())
	}
}
