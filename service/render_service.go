package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/docqa/docqa-be/repository"
	"github.com/docqa/docqa-be/types"
	"go.uber.org/zap"
)

// renderDPI doubles poppler's 72 dpi default so page images stay legible.
const renderDPI = 144

// RenderService rasterizes PDF pages to JPEG images and records them as
// Page entries, with page 1 doubling as the document cover.
type RenderService struct {
	uploadDir string
	docRepo   repository.DocumentRepo
	pageRepo  repository.PageRepo
	logger    *zap.Logger
}

func NewRenderService(
	uploadDir string,
	docRepo repository.DocumentRepo,
	pageRepo repository.PageRepo,
	logger *zap.Logger,
) *RenderService {
	return &RenderService{
		uploadDir: uploadDir,
		docRepo:   docRepo,
		pageRepo:  pageRepo,
		logger:    logger,
	}
}

// RenderDocument renders every page of the PDF at filePath and persists one
// Page record per image. The document's cover is set to page 1's image.
// Callers treat a returned error as non-fatal for the upload as a whole.
func (s *RenderService) RenderDocument(ctx context.Context, filePath string, doc *types.Document) error {
	outDir := filepath.Join(s.uploadDir, "pages", doc.ID)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create page image directory: %w", err)
	}

	cmd := exec.Command("pdftoppm", "-jpeg", "-r", strconv.Itoa(renderDPI),
		filePath, filepath.Join(outDir, "page"))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pdftoppm failed for %s: %w", filePath, err)
	}

	images, err := filepath.Glob(filepath.Join(outDir, "page-*.jpg"))
	if err != nil || len(images) == 0 {
		return fmt.Errorf("no page images produced for %s", filePath)
	}

	rendered := make(map[int]string, len(images))
	pageNums := make([]int, 0, len(images))
	for _, image := range images {
		num, err := pageNumberFromImage(image)
		if err != nil {
			s.logger.Warn("skipping unrecognized page image", zap.String("image", image))
			continue
		}
		rendered[num] = image
		pageNums = append(pageNums, num)
	}
	sort.Ints(pageNums)

	for _, num := range pageNums {
		rel, err := filepath.Rel(s.uploadDir, rendered[num])
		if err != nil {
			rel = rendered[num]
		}
		page := &types.Page{
			DocumentID: doc.ID,
			PageNumber: num,
			Image:      rel,
		}
		if err := s.pageRepo.CreatePage(ctx, page); err != nil {
			return fmt.Errorf("failed to record page %d: %w", num, err)
		}
		if num == 1 {
			doc.CoverImage = rel
		}
	}
	doc.PageCount = len(pageNums)
	if err := s.docRepo.UpdateDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to update document after rendering: %w", err)
	}
	return nil
}

// pageNumberFromImage parses N out of a pdftoppm output name like
// "page-03.jpg"; the zero padding width depends on the page count.
func pageNumberFromImage(image string) (int, error) {
	base := strings.TrimSuffix(filepath.Base(image), filepath.Ext(image))
	numPart := strings.TrimPrefix(base, "page-")
	return strconv.Atoi(numPart)
}
