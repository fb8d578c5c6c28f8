package extractor

import (
	"strings"

	"propintel/internal/domain"
)

// BuildExtractionPrompt returns the field-extraction instructions for a
// document type. The prompt enumerates the exact keys the response must
// contain and pins the contract every provider relies on: a flat JSON
// object of string values, with the literal "Not specified" for anything
// the text does not state.
func BuildExtractionPrompt(documentType domain.DocumentType) string {
	tmpl := domain.TemplateFor(documentType)

	var b strings.Builder
	b.WriteString("You are a property document data extraction assistant. ")
	b.WriteString(typeInstructions(tmpl.DocumentType))
	b.WriteString("\n\nIMPORTANT INSTRUCTIONS:\n")
	b.WriteString(`1. Every value must be a plain string copied or minimally normalized from the text. Never invent values.
2. Use the literal string "Not specified" for any field the text does not state.
3. Normalize dates to DD-MM-YYYY where the text allows it; otherwise copy the date as written.
4. Keep land extents exactly as stated (e.g. "2 acres", "15.5 perches", "0.0506 hectares").
5. The text comes from OCR and may contain recognition noise. Read past obvious character-level errors.
`)

	if tmpl.Open() {
		b.WriteString(`
Return a flat JSON object mapping each piece of property information you can identify to its value. Choose short lowercase hyphenated keys (e.g. "owner", "plan-number", "registration-date").
`)
	} else {
		b.WriteString("\nThe JSON object must contain exactly these keys:\n{\n")
		for i, name := range tmpl.FieldNames {
			b.WriteString("  \"" + name + "\": \"\"")
			if i < len(tmpl.FieldNames)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("}\n\nField notes:\n")
		for _, name := range tmpl.FieldNames {
			b.WriteString("- " + name + ": " + fieldNotes[name] + "\n")
		}
	}

	b.WriteString("\nReturn ONLY valid JSON with no markdown formatting, no code fences and no explanation: just the raw JSON object.")
	return b.String()
}

func typeInstructions(documentType domain.DocumentType) string {
	switch documentType {
	case domain.DocumentTypeTransferDeed:
		return "Analyze the following text recognized from a Sri Lankan deed of transfer and extract the details of the conveyance."
	case domain.DocumentTypeSurveyPlan:
		return "Analyze the following text recognized from a Sri Lankan licensed surveyor's plan and extract the survey details."
	case domain.DocumentTypeTitleCertificate:
		return "Analyze the following text recognized from a Sri Lankan certificate of title and extract the registration details."
	default:
		return "Analyze the following text recognized from a scanned property document and extract every piece of property information it states."
	}
}

var fieldNotes = map[string]string{
	"address":            "full postal address or location description of the property",
	"owner":              "current owner, transferee or registered proprietor",
	"previous-owner":     "transferor or previous owner",
	"extent":             "land extent as stated in the document",
	"plan-number":        "survey plan number the document references",
	"deed-number":        "number of the deed as attested",
	"registration-date":  "date of attestation or registration",
	"secretariat":        "divisional secretariat the property falls under",
	"assessment-number":  "municipal or local-authority assessment number",
	"survey-date":        "date the survey was carried out",
	"surveyor":           "name of the licensed surveyor",
	"boundaries":         "boundaries of the land as described (north, east, south, west)",
	"subdivisions":       "lot or subdivision identifiers shown on the plan",
	"coordinates":        "grid references or coordinates if stated",
	"certificate-number": "number of the certificate of title",
	"title-nature":       "nature of the title (e.g. freehold, leasehold)",
	"encumbrances":       "mortgages, leases or other encumbrances noted on the title",
	"issue-date":         "date the certificate was issued",
}
