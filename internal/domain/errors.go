package domain

import "errors"

var (
	ErrNoPages             = errors.New("no pages extracted from document")
	ErrNoText              = errors.New("no text recognized on any page")
	ErrMissingDocumentURL  = errors.New("document URL is required")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrFetchFailed         = errors.New("document download failed")
)
