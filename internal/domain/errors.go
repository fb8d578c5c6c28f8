package domain

import "errors"

var (
	ErrBatchNotFound       = errors.New("batch not found")
	ErrBatchNotCompleted   = errors.New("batch is not completed yet")
	ErrEmptyBatch          = errors.New("batch contains no documents")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientText    = errors.New("insufficient text for structured extraction")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
)
