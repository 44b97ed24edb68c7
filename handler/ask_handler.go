package handler

import (
	"context"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/docqa/docqa-be/database"
	"github.com/docqa/docqa-be/service"
	"github.com/docqa/docqa-be/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SourceLookup resolves the document and page image behind an answer's
// source attribution. *service.FileService implements it.
type SourceLookup interface {
	GetDocument(ctx context.Context, id string) (*types.Document, error)
	GetPage(ctx context.Context, documentID string, pageNumber int) (*types.Page, error)
}

type AskHandler struct {
	vectorDB      database.VectorDatabase
	answerService service.AnswerService
	sources       SourceLookup
	searchLimit   int
	logger        *zap.Logger
}

func NewAskHandler(
	vectorDB database.VectorDatabase,
	answerService service.AnswerService,
	sources SourceLookup,
	searchLimit int,
	logger *zap.Logger,
) *AskHandler {
	if searchLimit <= 0 {
		searchLimit = 6
	}
	return &AskHandler{
		vectorDB:      vectorDB,
		answerService: answerService,
		sources:       sources,
		searchLimit:   searchLimit,
		logger:        logger,
	}
}

// HandleAsk answers GET /ask?q=...&pdf_id=<id|all>. The response always
// carries a well-formed structured answer; source attribution is attached
// only when the answer was actually found in the context.
func (h *AskHandler) HandleAsk(c *gin.Context) {
	question := strings.TrimSpace(c.Query("q"))
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question is required"})
		return
	}

	documentID := c.DefaultQuery("pdf_id", "all")
	if documentID == "all" {
		documentID = ""
	}

	hits, err := h.vectorDB.Search(c.Request.Context(), question, h.searchLimit, documentID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if len(hits) == 0 {
		c.JSON(http.StatusOK, types.AskResponse{
			Answer: types.Answer{
				Title:   "Answer",
				Content: "I cannot find the answer in the provided context.",
			},
		})
		return
	}

	answer, err := h.answerService.ComposeAnswer(c.Request.Context(), question, hits)
	if err != nil {
		h.serverError(c, err)
		return
	}

	resp := types.AskResponse{Answer: *answer}
	if !service.HasNotFoundSentinel(answer.Content) {
		h.attachSource(c, &resp, hits[0])
	}
	c.JSON(http.StatusOK, resp)
}

// attachSource reports the top-ranked chunk's page and document. Lookup
// failures degrade to an answer without attribution rather than an error.
func (h *AskHandler) attachSource(c *gin.Context, resp *types.AskResponse, top database.ScoredChunk) {
	meta := top.Chunk.Metadata
	resp.PageNumber = meta.PageNum

	doc, err := h.sources.GetDocument(c.Request.Context(), meta.DocumentID)
	if err != nil {
		h.logger.Warn("source document lookup failed",
			zap.String("document", meta.DocumentID), zap.Error(err))
		return
	}
	resp.PDFURL = path.Join("/uploads", filepath.ToSlash(doc.StoredName))

	page, err := h.sources.GetPage(c.Request.Context(), meta.DocumentID, meta.PageNum)
	if err == nil {
		resp.SourceImage = path.Join("/uploads", filepath.ToSlash(page.Image))
	}
}

// serverError logs the failure server-side and returns the generic
// structured-answer shape so clients can always render answer.content.
func (h *AskHandler) serverError(c *gin.Context, err error) {
	h.logger.Error("ask request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, types.AskResponse{
		Answer: types.Answer{
			Title:   "Server Error",
			Content: "Error occurred on server",
		},
	})
}
