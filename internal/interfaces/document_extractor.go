package interfaces

import "context"

// DocumentExtractor pulls text out of a page-structured document.
type DocumentExtractor interface {
	// ExtractText returns the document's text as a single string with
	// per-page strings concatenated in page order and surrounding
	// whitespace trimmed. Pages with no extractable text contribute the
	// empty string. Fails with pdf.ErrExtractionFailed when the document
	// cannot be opened or parsed; there is no partial success.
	ExtractText(ctx context.Context, path string) (string, error)
}
