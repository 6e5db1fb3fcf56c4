package ai

import "errors"

var (
	// ErrValidation reports a request missing its required text.
	ErrValidation = errors.New("missing required fields")
	// ErrExtractionParse reports model output that does not decode into a resume.
	ErrExtractionParse = errors.New("extraction parse error")
	// ErrUnsupportedFile reports an upload that is not a readable PDF or DOCX.
	ErrUnsupportedFile = errors.New("unsupported resume file")
)
