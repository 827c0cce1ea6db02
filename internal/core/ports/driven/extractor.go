package driven

import "context"

// DocumentExtractor turns a document file into plain text.
// Tables should be flattened into the text stream so downstream chunking
// and retrieval can see their contents.
//
// Implementations may include:
//   - pdftotext (poppler) for PDF files
//   - plain text passthrough for .txt/.md files
type DocumentExtractor interface {
	// Extract returns the full text of the document at path.
	// An empty string with a nil error means the document genuinely has
	// no extractable text.
	Extract(ctx context.Context, path string) (string, error)

	// Supports reports whether this extractor handles the given path,
	// judged by file extension.
	Supports(path string) bool
}

// RoleSource extracts declared role names from a role definitions file.
//
// Implementations may include:
//   - XML files carrying <role> elements
type RoleSource interface {
	// Roles returns every role name declared in the file at path, in
	// document order, duplicates preserved.
	Roles(ctx context.Context, path string) ([]string, error)
}
