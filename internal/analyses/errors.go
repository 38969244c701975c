package analyses

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrNoFile          = errors.New("no file uploaded")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrExtraction      = errors.New("text extraction failed")
	ErrTextTooShort    = errors.New("extracted text too short")
	ErrNotResume       = errors.New("document is not a resume")
)

const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeNotCV      = "NOT_A_CV"
	ErrorCodeStorage    = "STORAGE_ERROR"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)
