package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docqa/docqa-be/repository"
	"github.com/docqa/docqa-be/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDocService struct {
	docs          []types.Document
	deleted       []string
	transcript    string
	filename      string
	transcriptErr error
}

func (f *fakeDocService) ListDocuments(context.Context) ([]types.Document, error) {
	return f.docs, nil
}

func (f *fakeDocService) DeleteDocument(_ context.Context, id string) error {
	// Unknown ids are a silent no-op, mirroring the file service.
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDocService) Transcript(context.Context, string) (string, string, error) {
	if f.transcriptErr != nil {
		return "", "", f.transcriptErr
	}
	return f.filename, f.transcript, nil
}

func newDocumentRouter(svc DocumentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDocumentHandler(svc, zap.NewNop())
	router := gin.New()
	router.GET("/api/v1/documents", h.HandleList)
	router.GET("/api/v1/documents/:id/delete", h.HandleDelete)
	router.GET("/api/v1/documents/:id/transcript", h.HandleTranscript)
	return router
}

func TestHandleDeleteRedirects(t *testing.T) {
	svc := &fakeDocService{}
	router := newDocumentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc1/delete", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/api/v1/documents", w.Header().Get("Location"))
	assert.Equal(t, []string{"doc1"}, svc.deleted)
}

func TestHandleDeleteUnknownIDStillRedirects(t *testing.T) {
	router := newDocumentRouter(&fakeDocService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/never-created/delete", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
}

func TestHandleTranscriptStreamsAttachment(t *testing.T) {
	svc := &fakeDocService{
		filename:   "report_transcript.txt",
		transcript: "Page one text\n\nPage two text",
	}
	router := newDocumentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc1/transcript", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Header().Get("Content-Disposition"), `"report_transcript.txt"`)
	assert.Equal(t, "Page one text\n\nPage two text", w.Body.String())
}

func TestHandleTranscriptUnknownDocument(t *testing.T) {
	svc := &fakeDocService{transcriptErr: repository.ErrDocumentNotFound}
	router := newDocumentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/missing/transcript", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleListReturnsDocuments(t *testing.T) {
	svc := &fakeDocService{docs: []types.Document{
		{ID: "doc1", FileName: "a.pdf", UploadedAt: 1700000000},
	}}
	router := newDocumentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a.pdf")
}
