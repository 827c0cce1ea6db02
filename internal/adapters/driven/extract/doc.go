// Package extract provides document-to-text and role-definition
// extraction adapters.
//
// Adapters:
//   - Plaintext: UTF-8 passthrough for .txt/.md files
//   - PDFToText: PDF extraction via the poppler pdftotext tool
//   - XMLRoles: role names from <role> elements in an XML file
//
// A Composite extractor dispatches to the first adapter that supports a
// given file extension.
package extract
