package domain

// DocumentType classifies a scanned property document and selects the
// structured-field template used for extraction.
type DocumentType string

const (
	DocumentTypeTransferDeed     DocumentType = "transfer-deed"
	DocumentTypeSurveyPlan       DocumentType = "survey-plan"
	DocumentTypeTitleCertificate DocumentType = "title-certificate"
	DocumentTypeGeneric          DocumentType = "generic"
)

// FailureKind tags the reason a document produced no structured data.
// The empty value means the document was extracted successfully.
type FailureKind string

const (
	FailureOCR                FailureKind = "ocr_failure"
	FailureInsufficientText   FailureKind = "insufficient_text"
	FailureServiceUnavailable FailureKind = "service_unavailable"
	FailureMalformedResponse  FailureKind = "malformed_response"
)

// BatchStatus represents the lifecycle of a submitted batch job.
type BatchStatus string

const (
	BatchStatusQueued     BatchStatus = "queued"
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
)

// FileType represents the allowed file types for submission.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeTIFF FileType = "tiff"
	FileTypeWEBP FileType = "webp"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJPG:  "image/jpeg",
	FileTypePNG:  "image/png",
	FileTypeTIFF: "image/tiff",
	FileTypeWEBP: "image/webp",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"image/tiff":      FileTypeTIFF,
	"image/webp":      FileTypeWEBP,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"tif":  FileTypeTIFF,
	"tiff": FileTypeTIFF,
	"webp": FileTypeWEBP,
}
