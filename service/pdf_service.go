package service

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/docqa/docqa-be/types"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// PDFService handles PDF text extraction and chunking
type PDFService struct {
	maxChunkSize int // Maximum size of each text chunk
	overlapSize  int // Size of overlap between chunks
	logger       *zap.Logger
}

var DefaultDocumentServiceConfig = types.DocumentServiceConfig{
	MaxChunkSize: 500,
	OverlapSize:  50,
}

// chunk boundaries in preference order: paragraph, line, sentence, word.
// CJK sentences end in full-width stops with no trailing space.
var chunkSeparators = []string{"\n\n", "\n", ". ", "? ", "! ", "。", "．", " "}

// NewPDFService creates a new PDF service with configurable chunk sizes
func NewPDFService(config types.DocumentServiceConfig, logger *zap.Logger) *PDFService {
	if config.MaxChunkSize <= 0 {
		config.MaxChunkSize = DefaultDocumentServiceConfig.MaxChunkSize
	}
	if config.OverlapSize < 0 || config.OverlapSize >= config.MaxChunkSize {
		config.OverlapSize = DefaultDocumentServiceConfig.OverlapSize
	}
	return &PDFService{
		maxChunkSize: config.MaxChunkSize,
		overlapSize:  config.OverlapSize,
		logger:       logger,
	}
}

// ExtractPages reads a PDF and returns one record per page that has
// non-whitespace text, in page order. Page numbers are 1-based and may be
// non-contiguous when empty pages are skipped. A file that cannot be opened
// or parsed fails the whole extraction.
func (s *PDFService) ExtractPages(filePath string) ([]types.PageText, int, error) {
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open PDF %s: %w", filePath, err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	var pages []types.PageText
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		text := s.extractPageText(reader, filePath, pageNum)
		text = s.cleanText(text)
		if text == "" {
			continue
		}
		pages = append(pages, types.PageText{
			PageNum: pageNum,
			Text:    text,
		})
	}
	return pages, totalPages, nil
}

// extractPageText tries the in-process reader first and falls back to the
// pdftotext utility when a page yields nothing.
func (s *PDFService) extractPageText(reader *pdf.Reader, filePath string, pageNum int) string {
	page := reader.Page(pageNum)
	if !page.V.IsNull() {
		text, err := page.GetPlainText(nil)
		if err == nil && strings.TrimSpace(text) != "" {
			return text
		}
		if err != nil {
			s.logger.Warn("page text extraction failed, falling back to pdftotext",
				zap.Int("page", pageNum), zap.Error(err))
		}
	}
	text, err := extractTextWithPdftotext(filePath, pageNum)
	if err != nil {
		return ""
	}
	return text
}

// ChunkPages splits every page independently; chunks never span two pages.
func (s *PDFService) ChunkPages(pages []types.PageText, meta types.ChunkMetadata) []types.DocumentChunk {
	var chunks []types.DocumentChunk
	for _, page := range pages {
		pageMeta := meta
		pageMeta.PageNum = page.PageNum
		chunks = append(chunks, s.createChunks(page.Text, pageMeta)...)
	}
	return chunks
}

// ProcessPDF extracts, chunks and streams a PDF's content over c, which is
// closed when processing ends.
func (s *PDFService) ProcessPDF(filePath string, meta types.ChunkMetadata, c chan<- types.DocumentChunk) error {
	defer close(c)
	pages, totalPages, err := s.ExtractPages(filePath)
	if err != nil {
		return err
	}
	meta.TotalPages = totalPages
	for _, chunk := range s.ChunkPages(pages, meta) {
		c <- chunk
	}
	return nil
}

// createChunks splits one page's text into overlapping chunks. The split
// point is sought backwards from the size limit at the best available
// boundary; consecutive chunks overlap by exactly the overlap size.
func (s *PDFService) createChunks(text string, metadata types.ChunkMetadata) []types.DocumentChunk {
	var chunks []types.DocumentChunk
	pos := 0
	for pos < len(text) {
		end := pos + s.maxChunkSize
		if end >= len(text) {
			if strings.TrimSpace(text[pos:]) != "" {
				chunks = append(chunks, types.DocumentChunk{
					Content:  text[pos:],
					Metadata: metadata,
				})
			}
			break
		}

		cut := findSplit(text, pos, end)
		if strings.TrimSpace(text[pos:cut]) != "" {
			chunks = append(chunks, types.DocumentChunk{
				Content:  text[pos:cut],
				Metadata: metadata,
			})
		}

		next := cut - s.overlapSize
		for next > pos && !utf8.RuneStart(text[next]) {
			next--
		}
		if next <= pos {
			// Ensure we make progress
			next = cut
		}
		pos = next
	}
	return chunks
}

// findSplit returns the cut position in (start, limit], preferring paragraph,
// then line, then sentence, then word boundaries. A boundary is only taken
// when it leaves non-whitespace content behind it. The hard-cut fallback
// never splits a rune.
func findSplit(text string, start, limit int) int {
	window := text[start:limit]
	for _, sep := range chunkSeparators {
		if idx := strings.LastIndex(window, sep); idx >= 0 {
			cut := start + idx + len(sep)
			if strings.TrimSpace(text[start:cut]) != "" {
				return cut
			}
		}
	}
	for limit > start && !utf8.RuneStart(text[limit]) {
		limit--
	}
	if limit == start {
		_, size := utf8.DecodeRuneInString(text[start:])
		return start + size
	}
	return limit
}

// extractTextWithPdftotext extracts a single page's text using the pdftotext utility
func extractTextWithPdftotext(filePath string, pageNumber int) (string, error) {
	cmd := exec.Command("pdftotext", "-f", strconv.Itoa(pageNumber),
		"-l", strconv.Itoa(pageNumber),
		"-enc", "UTF-8", "-nopgbrk",
		filePath, "-")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext failed for page %d: %w", pageNumber, err)
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("got nothing at page %d", pageNumber)
	}
	return text, nil
}

func (s *PDFService) cleanText(text string) string {
	replacements := map[string]string{
		"\u0000": "",   // Null character
		"\ufffd": "",   // Unicode replacement character
		"\u001b": "",   // Escape character
		"\r":     "",   // Carriage return
		"\f":     "\n", // Form feed to newline
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}

	return strings.TrimSpace(cleaned)
}
