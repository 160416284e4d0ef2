package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"accidata/internal/domain"
	"accidata/internal/service"
)

type mockObjectStore struct {
	uploads []string
}

func (m *mockObjectStore) Upload(_ context.Context, key, _ string, content io.Reader, _ int64, _ func(int)) (string, error) {
	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", err
	}
	m.uploads = append(m.uploads, key)
	return "https://storage.example.com/accident-documents/" + key, nil
}

type mockDocumentRepo struct {
	inserted []domain.AttachmentRecord
}

func (m *mockDocumentRepo) Insert(_ context.Context, record domain.AttachmentRecord) error {
	m.inserted = append(m.inserted, record)
	return nil
}

func (m *mockDocumentRepo) ListBySessionID(_ context.Context, _ string) ([]domain.AttachmentRecord, error) {
	return m.inserted, nil
}

type documentFixture struct {
	router     *gin.Engine
	sessionSvc *service.SessionService
	objects    *mockObjectStore
	documents  *mockDocumentRepo
}

func setupDocumentRouter(t *testing.T) *documentFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	objects := &mockObjectStore{}
	documents := &mockDocumentRepo{}
	attachments := service.NewAttachmentService(objects, documents, zap.NewNop())
	responseSvc := service.NewResponseService(service.NewMemoryResponseStore("accidata"), nil, zap.NewNop())
	sessionSvc := service.NewSessionService(&mockSessionRepo{}, handlerTestCatalog(), responseSvc, zap.NewNop())

	h := NewDocumentHandler(zap.NewNop(), sessionSvc, attachments)

	r := gin.New()
	r.POST("/session/:id/documents", h.UploadDocument)
	r.GET("/session/:id/documents", h.ListDocuments)

	return &documentFixture{router: r, sessionSvc: sessionSvc, objects: objects, documents: documents}
}

func performUpload(r http.Handler, path, fileName, contentType string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, _ := writer.CreatePart(header)
	part.Write(content)

	for name, value := range fields {
		writer.WriteField(name, value)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestDocumentUpload(t *testing.T) {
	fx := setupDocumentRouter(t)
	session, _ := fx.sessionSvc.Create(context.Background())

	rec := performUpload(fx.router, "/session/"+session.ID+"/documents", "scene.pdf", "application/pdf", []byte("pdf bytes"), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Document domain.AttachmentRecord `json:"document"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Document.FileName != "scene.pdf" || body.Document.URL == "" {
		t.Fatalf("unexpected document record %+v", body.Document)
	}
	if body.Document.QuestionID != 1 {
		t.Fatalf("expected tag with current question, got %d", body.Document.QuestionID)
	}
	if len(fx.objects.uploads) != 1 || len(fx.documents.inserted) != 1 {
		t.Fatalf("expected object and metadata row, got %d/%d", len(fx.objects.uploads), len(fx.documents.inserted))
	}
}

func TestDocumentUploadExplicitQuestionID(t *testing.T) {
	fx := setupDocumentRouter(t)
	session, _ := fx.sessionSvc.Create(context.Background())

	rec := performUpload(fx.router, "/session/"+session.ID+"/documents", "a.png", "image/png", []byte("png"), map[string]string{
		"question_id": "2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	var body struct {
		Document domain.AttachmentRecord `json:"document"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Document.QuestionID != 2 {
		t.Fatalf("expected explicit question id, got %d", body.Document.QuestionID)
	}
}

func TestDocumentUploadRejectsUnsupportedType(t *testing.T) {
	fx := setupDocumentRouter(t)
	session, _ := fx.sessionSvc.Create(context.Background())

	rec := performUpload(fx.router, "/session/"+session.ID+"/documents", "notes.txt", "text/plain", []byte("text"), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if len(fx.objects.uploads) != 0 {
		t.Fatalf("rejected file must not reach storage")
	}
}

func TestDocumentUploadMissingFile(t *testing.T) {
	fx := setupDocumentRouter(t)
	session, _ := fx.sessionSvc.Create(context.Background())

	req := httptest.NewRequest(http.MethodPost, "/session/"+session.ID+"/documents", nil)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestDocumentUploadUnknownSession(t *testing.T) {
	fx := setupDocumentRouter(t)

	rec := performUpload(fx.router, "/session/missing/documents", "a.png", "image/png", []byte("png"), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestDocumentList(t *testing.T) {
	fx := setupDocumentRouter(t)
	session, _ := fx.sessionSvc.Create(context.Background())

	performUpload(fx.router, "/session/"+session.ID+"/documents", "scene.pdf", "application/pdf", []byte("pdf"), nil)

	rec := performJSON(fx.router, http.MethodGet, "/session/"+session.ID+"/documents", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body struct {
		Documents []domain.AttachmentRecord `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Documents) != 1 {
		t.Fatalf("expected one listed document, got %+v", body.Documents)
	}
}
