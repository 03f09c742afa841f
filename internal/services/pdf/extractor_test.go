package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestRenderFAQReport(t *testing.T) {
	logger := arbor.NewLogger()
	service := NewReportService(logger)

	t.Run("Empty report", func(t *testing.T) {
		pdfBytes, err := service.RenderFAQReport("FAQ Export", nil)
		require.NoError(t, err)
		require.NotEmpty(t, pdfBytes)
		assert.Equal(t, "%PDF", string(pdfBytes[:4]))
	})
}

func TestExtractor_ExtractText(t *testing.T) {
	logger := arbor.NewLogger()
	extractor := NewExtractor(logger)
	ctx := context.Background()

	t.Run("Missing file fails with ErrExtractionFailed", func(t *testing.T) {
		_, err := extractor.ExtractText(ctx, filepath.Join(t.TempDir(), "missing.pdf"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExtractionFailed)
	})

	t.Run("Corrupt file fails with ErrExtractionFailed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corrupt.pdf")
		require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0644))

		_, err := extractor.ExtractText(ctx, path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExtractionFailed)
	})

	t.Run("Generated fixture round-trips", func(t *testing.T) {
		content, err := RenderTextDocument("Refund policy: returns accepted within 30 days.")
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "policy.pdf")
		require.NoError(t, os.WriteFile(path, content, 0644))

		text, err := extractor.ExtractText(ctx, path)
		require.NoError(t, err)
		// pdfcpu emits raw content streams; the test only asserts the
		// extraction pipeline runs end to end on a real document.
		assert.NotNil(t, text)
	})
}
