package domain

// FieldTemplate enumerates the exact field names expected for a document
// type. Fixed templates pin both the key set and its order; the generic
// template is open-ended and imposes no key set.
type FieldTemplate struct {
	DocumentType DocumentType
	FieldNames   []string
}

// Open reports whether the template imposes no fixed key set.
func (t FieldTemplate) Open() bool {
	return len(t.FieldNames) == 0
}

// Size returns the number of fields in the template.
func (t FieldTemplate) Size() int {
	return len(t.FieldNames)
}

// Contains reports whether name is one of the template's field names.
func (t FieldTemplate) Contains(name string) bool {
	for _, n := range t.FieldNames {
		if n == name {
			return true
		}
	}
	return false
}

// NewFields returns a Fields mapping pre-populated with every template key
// holding the NotSpecified sentinel, in template order.
func (t FieldTemplate) NewFields() Fields {
	f := NewFields()
	for _, name := range t.FieldNames {
		f.Set(name, NotSpecified)
	}
	return f
}

var fieldTemplates = map[DocumentType]FieldTemplate{
	DocumentTypeTransferDeed: {
		DocumentType: DocumentTypeTransferDeed,
		FieldNames: []string{
			"address",
			"owner",
			"previous-owner",
			"extent",
			"plan-number",
			"deed-number",
			"registration-date",
			"secretariat",
			"assessment-number",
		},
	},
	DocumentTypeSurveyPlan: {
		DocumentType: DocumentTypeSurveyPlan,
		FieldNames: []string{
			"plan-number",
			"survey-date",
			"surveyor",
			"boundaries",
			"extent",
			"subdivisions",
			"coordinates",
		},
	},
	DocumentTypeTitleCertificate: {
		DocumentType: DocumentTypeTitleCertificate,
		FieldNames: []string{
			"certificate-number",
			"address",
			"owner",
			"extent",
			"title-nature",
			"encumbrances",
			"issue-date",
		},
	},
	DocumentTypeGeneric: {
		DocumentType: DocumentTypeGeneric,
	},
}

// TemplateFor returns the field template for a document type. Unknown types
// fall back to the generic template.
func TemplateFor(dt DocumentType) FieldTemplate {
	if t, ok := fieldTemplates[dt]; ok {
		return t
	}
	return fieldTemplates[DocumentTypeGeneric]
}
