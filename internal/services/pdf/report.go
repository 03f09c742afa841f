package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/models"
)

// ReportService renders FAQ exports as PDF documents
type ReportService struct {
	logger arbor.ILogger
}

// NewReportService creates a new FAQ report service
func NewReportService(logger arbor.ILogger) *ReportService {
	return &ReportService{
		logger: logger,
	}
}

// RenderFAQReport produces a PDF listing every FAQ with its ID and
// question/answer text, in store order.
func (s *ReportService) RenderFAQReport(title string, faqs []*models.FAQ) ([]byte, error) {
	s.logger.Debug().
		Str("title", title).
		Int("faq_count", len(faqs)).
		Msg("Rendering FAQ report")

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	doc.SetFont("Arial", "B", 14)
	doc.MultiCell(0, 8, title, "", "L", false)
	doc.Ln(4)

	doc.SetFont("Arial", "", 9)
	if len(faqs) == 0 {
		doc.MultiCell(0, 5, "No FAQ entries.", "", "L", false)
	}

	for _, faq := range faqs {
		doc.SetFont("Arial", "B", 10)
		doc.MultiCell(0, 5, fmt.Sprintf("%d. %s", faq.ID, faq.Question), "", "L", false)
		doc.SetFont("Arial", "", 9)
		doc.MultiCell(0, 5, faq.Answer, "", "L", false)
		doc.Ln(3)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate FAQ report")
		return nil, fmt.Errorf("failed to generate FAQ report: %w", err)
	}

	s.logger.Debug().Int("pdf_size", buf.Len()).Msg("FAQ report generated")
	return buf.Bytes(), nil
}

// RenderTextDocument produces a simple single-column PDF from plain text.
// Used to build staging fixtures in tests.
func RenderTextDocument(text string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()
	doc.SetFont("Arial", "", 10)
	doc.MultiCell(0, 5, text, "", "L", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render text document: %w", err)
	}
	return buf.Bytes(), nil
}
