// Package ocr holds the heuristics applied to recognized text: the
// document-type classifier and the language detector. The OCR service
// client itself lives in the vision subpackage.
package ocr

import (
	"strings"

	"propintel/internal/domain"
)

// ClassifyText guesses the document type from extracted text with a fixed
// first-match-wins chain of case-insensitive substring rules. The rule
// order is part of the contract: a transfer deed that also mentions a
// survey plan must still classify as transfer-deed. Do not reorder.
func ClassifyText(text string) domain.DocumentType {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "deed of transfer") || strings.Contains(t, "transfer deed"):
		return domain.DocumentTypeTransferDeed
	case strings.Contains(t, "plan") && strings.Contains(t, "survey"):
		return domain.DocumentTypeSurveyPlan
	case strings.Contains(t, "title") && (strings.Contains(t, "deed") || strings.Contains(t, "certificate")):
		return domain.DocumentTypeTitleCertificate
	default:
		return domain.DocumentTypeGeneric
	}
}
