package app

import "errors"

// Input-rejected conditions: reported to the caller with a specific reason,
// never retried.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnsupportedFileType = errors.New("only .pdf, .txt and .docx files are supported")
	ErrEmptyDocument       = errors.New("document has no extractable text")
	ErrNoDocumentIndexed   = errors.New("no document indexed")
	ErrLanguageUnsupported = errors.New("language not supported")
)

// Upstream-service failures: wrapped around the underlying cause so callers
// can branch on the kind while keeping the context.
var (
	ErrEmbeddingService  = errors.New("embedding service failed")
	ErrGenerationService = errors.New("generation service failed")
	ErrSynthesisFailed   = errors.New("speech synthesis failed")
)

// Auth conditions.
var (
	ErrUsernameExists    = errors.New("username already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
)
