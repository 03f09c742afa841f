package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/interfaces"
)

// ErrExtractionFailed marks a document that cannot be opened or parsed.
// Per-document and non-fatal: the ingestion orchestrator logs it and
// leaves the document in staging.
var ErrExtractionFailed = errors.New("document extraction failed")

// Extractor implements interfaces.DocumentExtractor using pdfcpu
type Extractor struct {
	logger  arbor.ILogger
	tempDir string
}

// Compile-time interface assertion
var _ interfaces.DocumentExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor service
func NewExtractor(logger arbor.ILogger) *Extractor {
	tempDir := filepath.Join(os.TempDir(), "poli-pdf")
	os.MkdirAll(tempDir, 0755)

	return &Extractor{
		logger:  logger,
		tempDir: tempDir,
	}
}

// ExtractText extracts all text from the PDF at path, concatenating
// per-page strings in page order and trimming surrounding whitespace.
// Pages without extractable text contribute the empty string. There is
// no partial success: unreadable documents fail with ErrExtractionFailed.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %v", ErrExtractionFailed, path, err)
	}
	pageCount := pdfCtx.PageCount

	// pdfcpu extracts page content into per-page files in an output dir
	outDir, err := os.MkdirTemp(e.tempDir, "pages_")
	if err != nil {
		return "", fmt.Errorf("%w: failed to create extraction dir: %v", ErrExtractionFailed, err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(path, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("%w: failed to extract content from %s: %v", ErrExtractionFailed, path, err)
	}

	pageTexts, err := readPageContent(outDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		builder.WriteString(pageTexts[pageNum])
	}

	text := strings.TrimSpace(builder.String())

	e.logger.Debug().
		Str("path", path).
		Int("page_count", pageCount).
		Int("text_length", len(text)).
		Msg("Extracted document text")

	return text, nil
}

// readPageContent maps page numbers to extracted content. pdfcpu names
// the output files "Content_page_N" (older releases use "page_N").
func readPageContent(outDir string) (map[int]string, error) {
	files, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction dir: %v", err)
	}

	pageTexts := make(map[int]string, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}

		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err != nil {
			if _, err := fmt.Sscanf(file.Name(), "page_%d", &pageNum); err != nil {
				continue
			}
		}
		pageTexts[pageNum] = string(content)
	}

	return pageTexts, nil
}
