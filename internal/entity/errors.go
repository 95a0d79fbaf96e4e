package entity

import "errors"

// Domain errors
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")

	// Upload errors
	ErrNoFileSelected    = errors.New("no file selected")
	ErrEmptyFile         = errors.New("file is empty")
	ErrFileTooLarge      = errors.New("file too large")
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrDocumentMissing   = errors.New("no document uploaded")
	ErrEmptyQuery        = errors.New("query is empty")
	ErrMalformedResponse = errors.New("malformed response from RAG service")
	ErrEmptyTranscript   = errors.New("transcript is empty")

	// Validation errors
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
