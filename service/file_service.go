package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docqa/docqa-be/database"
	"github.com/docqa/docqa-be/repository"
	"github.com/docqa/docqa-be/types"
	"github.com/docqa/docqa-be/utils"
	"go.uber.org/zap"
)

// StatusNotifier receives per-document processing updates during uploads.
type StatusNotifier interface {
	Broadcast(status types.ProcessingDocumentStatus)
}

// FileService owns the upload pipeline: persist the file, create the
// document record, extract and index its text, then render page images.
type FileService struct {
	uploadDir     string
	vectorDB      database.VectorDatabase
	pdfService    *PDFService
	renderService *RenderService
	docRepo       repository.DocumentRepo
	pageRepo      repository.PageRepo
	notifier      StatusNotifier
	logger        *zap.Logger
}

func NewFileService(
	uploadDir string,
	vectorDB database.VectorDatabase,
	pdfService *PDFService,
	renderService *RenderService,
	docRepo repository.DocumentRepo,
	pageRepo repository.PageRepo,
	notifier StatusNotifier,
	logger *zap.Logger,
) *FileService {
	if err := os.MkdirAll(filepath.Join(uploadDir, "pdfs"), 0755); err != nil {
		panic(err)
	}
	return &FileService{
		uploadDir:     uploadDir,
		vectorDB:      vectorDB,
		pdfService:    pdfService,
		renderService: renderService,
		docRepo:       docRepo,
		pageRepo:      pageRepo,
		notifier:      notifier,
		logger:        logger,
	}
}

// UploadFile processes one uploaded PDF. Extraction or indexing failures
// abort this file and propagate; rendering failures are logged and the
// document is kept without page images.
func (s *FileService) UploadFile(ctx context.Context, file *multipart.FileHeader) (*types.Document, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	storedName, err := s.saveUpload(file)
	if err != nil {
		return nil, err
	}
	filePath := filepath.Join(s.uploadDir, storedName)

	doc := &types.Document{
		FileName:   file.Filename,
		StoredName: storedName,
		UploadedAt: time.Now().Unix(),
	}
	if err := s.docRepo.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	pages, totalPages, err := s.pdfService.ExtractPages(filePath)
	if err != nil {
		return nil, err
	}

	meta := types.ChunkMetadata{
		DocumentID: doc.ID,
		Title:      file.Filename,
		TotalPages: totalPages,
	}
	chunks := s.pdfService.ChunkPages(pages, meta)
	if err := s.vectorDB.InsertChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("failed to index document %s: %w", doc.ID, err)
	}
	s.notify(types.ProcessingDocumentStatus{
		Status:         "indexed",
		Message:        fmt.Sprintf("Indexed %d chunks", len(chunks)),
		Document:       doc.FileName,
		Progress:       0.5,
		TotalPages:     totalPages,
		ProcessedPages: totalPages,
	})

	if err := s.renderService.RenderDocument(ctx, filePath, doc); err != nil {
		// Partial success: the text is indexed even when images are missing.
		s.logger.Error("page rendering failed",
			zap.String("document", doc.ID), zap.Error(err))
	}

	s.notify(types.ProcessingDocumentStatus{
		Status:         "completed",
		Message:        "Done processing PDF",
		Document:       doc.FileName,
		Progress:       1,
		TotalPages:     totalPages,
		ProcessedPages: totalPages,
	})
	return doc, nil
}

// DeleteDocument cascades a delete through pages, the stored files and the
// vector index. Deleting an unknown id is a silent no-op.
func (s *FileService) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.docRepo.GetDocument(ctx, id)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.uploadDir, doc.StoredName)); err != nil {
		s.logger.Warn("failed to remove stored PDF", zap.String("document", id), zap.Error(err))
	}
	if err := os.RemoveAll(filepath.Join(s.uploadDir, "pages", id)); err != nil {
		s.logger.Warn("failed to remove page images", zap.String("document", id), zap.Error(err))
	}
	if err := s.pageRepo.DeleteByDocument(ctx, id); err != nil {
		return err
	}
	if err := s.docRepo.DeleteDocument(ctx, id); err != nil {
		return err
	}
	return s.vectorDB.DeleteByDocument(ctx, id)
}

// Transcript re-extracts the document's text on demand and returns it as one
// plain-text blob together with the download filename.
func (s *FileService) Transcript(ctx context.Context, id string) (string, string, error) {
	doc, err := s.docRepo.GetDocument(ctx, id)
	if err != nil {
		return "", "", err
	}
	pages, _, err := s.pdfService.ExtractPages(filepath.Join(s.uploadDir, doc.StoredName))
	if err != nil {
		return "", "", err
	}

	var sb strings.Builder
	for i, page := range pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(page.Text)
	}
	filename := utils.FileNameWithoutExt(doc.FileName) + "_transcript.txt"
	return filename, sb.String(), nil
}

func (s *FileService) ListDocuments(ctx context.Context) ([]types.Document, error) {
	return s.docRepo.ListDocuments(ctx)
}

func (s *FileService) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	return s.docRepo.GetDocument(ctx, id)
}

func (s *FileService) GetPage(ctx context.Context, documentID string, pageNumber int) (*types.Page, error) {
	return s.pageRepo.GetPage(ctx, documentID, pageNumber)
}

func (s *FileService) saveUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	storedName := filepath.Join("pdfs", utils.TimestampedFileName(file.Filename))
	dst, err := os.Create(filepath.Join(s.uploadDir, storedName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", err
	}
	return storedName, nil
}

func (s *FileService) notify(status types.ProcessingDocumentStatus) {
	if s.notifier != nil {
		s.notifier.Broadcast(status)
	}
}
