package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docqa/docqa-be/database"
	"github.com/docqa/docqa-be/repository"
	"github.com/docqa/docqa-be/service"
	"github.com/docqa/docqa-be/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVectorDB struct {
	hits       []database.ScoredChunk
	err        error
	lastQuery  string
	lastFilter string
}

func (f *fakeVectorDB) InsertChunks(context.Context, []types.DocumentChunk) error { return nil }

func (f *fakeVectorDB) Search(_ context.Context, query string, _ int, documentID string) ([]database.ScoredChunk, error) {
	f.lastQuery = query
	f.lastFilter = documentID
	return f.hits, f.err
}

func (f *fakeVectorDB) DeleteByDocument(context.Context, string) error { return nil }

type fakeComposer struct {
	answer *types.Answer
	err    error
}

func (f *fakeComposer) ComposeAnswer(context.Context, string, []database.ScoredChunk) (*types.Answer, error) {
	return f.answer, f.err
}

type fakeSources struct {
	doc  *types.Document
	page *types.Page
}

func (f *fakeSources) GetDocument(context.Context, string) (*types.Document, error) {
	if f.doc == nil {
		return nil, repository.ErrDocumentNotFound
	}
	return f.doc, nil
}

func (f *fakeSources) GetPage(context.Context, string, int) (*types.Page, error) {
	if f.page == nil {
		return nil, repository.ErrPageNotFound
	}
	return f.page, nil
}

func newAskRouter(vectorDB database.VectorDatabase, composer service.AnswerService, sources SourceLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAskHandler(vectorDB, composer, sources, 6, zap.NewNop())
	router := gin.New()
	router.GET("/api/v1/ask", h.HandleAsk)
	return router
}

func parisHits() []database.ScoredChunk {
	return []database.ScoredChunk{
		{
			Chunk: types.DocumentChunk{
				Content:  "The capital of France is Paris.",
				Metadata: types.ChunkMetadata{DocumentID: "doc1", PageNum: 1},
			},
			Distance: 0.1,
		},
	}
}

func TestHandleAskMissingQuestion(t *testing.T) {
	router := newAskRouter(&fakeVectorDB{}, &fakeComposer{}, &fakeSources{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ask", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "Question is required"}`, w.Body.String())
}

func TestHandleAskBlankQuestion(t *testing.T) {
	router := newAskRouter(&fakeVectorDB{}, &fakeComposer{}, &fakeSources{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ask?q=%20%20", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAskReturnsAnswerWithSource(t *testing.T) {
	vectorDB := &fakeVectorDB{hits: parisHits()}
	composer := &fakeComposer{answer: &types.Answer{
		Title:   "Capital of France",
		Content: "The capital of France is Paris.",
		Points:  []string{"Paris"},
	}}
	sources := &fakeSources{
		doc:  &types.Document{ID: "doc1", StoredName: "pdfs/france_1700000000.pdf"},
		page: &types.Page{DocumentID: "doc1", PageNumber: 1, Image: "pages/doc1/page-1.jpg"},
	}
	router := newAskRouter(vectorDB, composer, sources)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ask?q=What+is+the+capital+of+France%3F&pdf_id=all", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Answer.Content, "Paris")
	assert.Equal(t, 1, resp.PageNumber)
	assert.Equal(t, "/uploads/pdfs/france_1700000000.pdf", resp.PDFURL)
	assert.Equal(t, "/uploads/pages/doc1/page-1.jpg", resp.SourceImage)
	assert.Empty(t, vectorDB.lastFilter, "pdf_id=all must mean unfiltered search")
}

func TestHandleAskFiltersBySpecificDocument(t *testing.T) {
	vectorDB := &fakeVectorDB{hits: parisHits()}
	composer := &fakeComposer{answer: &types.Answer{Content: "Paris."}}
	router := newAskRouter(vectorDB, composer, &fakeSources{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ask?q=capital&pdf_id=doc42", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "doc42", vectorDB.lastFilter)
}

func TestHandleAskSuppressesSourceOnSentinel(t *testing.T) {
	vectorDB := &fakeVectorDB{hits: parisHits()}
	composer := &fakeComposer{answer: &types.Answer{
		Title:   "Answer",
		Content: "I Cannot Find The Answer in the provided context.",
	}}
	sources := &fakeSources{
		doc:  &types.Document{ID: "doc1", StoredName: "pdfs/a.pdf"},
		page: &types.Page{DocumentID: "doc1", PageNumber: 1, Image: "pages/doc1/page-1.jpg"},
	}
	router := newAskRouter(vectorDB, composer, sources)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ask?q=unanswerable", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "page_number")
	assert.NotContains(t, body, "pdf_url")
	assert.NotContains(t, body, "source_image")
}

func TestHandleAskNoHitsReturnsNotFoundAnswer(t *testing.T) {
	router := newAskRouter(&fakeVectorDB{}, &fakeComposer{}, &fakeSources{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ask?q=anything", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, service.HasNotFoundSentinel(resp.Answer.Content))
	assert.Zero(t, resp.PageNumber)
}

func TestHandleAskSearchFailureIsGeneric(t *testing.T) {
	vectorDB := &fakeVectorDB{err: errors.New("connection refused to 10.0.0.5:8080")}
	router := newAskRouter(vectorDB, &fakeComposer{}, &fakeSources{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ask?q=anything", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp types.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Error occurred on server", resp.Answer.Content)
	assert.NotContains(t, w.Body.String(), "10.0.0.5", "internal detail must not leak")
}

func TestHandleAskComposerFailureIsGeneric(t *testing.T) {
	vectorDB := &fakeVectorDB{hits: parisHits()}
	composer := &fakeComposer{err: errors.New("model timeout")}
	router := newAskRouter(vectorDB, composer, &fakeSources{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ask?q=anything", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp types.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Answer.Content)
}
