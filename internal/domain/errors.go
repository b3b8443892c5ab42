package domain

import "errors"

var (
	ErrEmptyRecognition    = errors.New("ocr returned no usable text")
	ErrNoExtractableFields = errors.New("no extractable fields found")
	ErrResultNotFound      = errors.New("extraction result not found")
	ErrUnknownField        = errors.New("unknown field name")
)
