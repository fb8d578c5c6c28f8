package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"propintel/internal/domain"
)

func TestTemplateFor_FixedTypes(t *testing.T) {
	deed := domain.TemplateFor(domain.DocumentTypeTransferDeed)
	assert.Equal(t, 9, deed.Size())
	assert.False(t, deed.Open())
	assert.True(t, deed.Contains("secretariat"))

	plan := domain.TemplateFor(domain.DocumentTypeSurveyPlan)
	assert.Equal(t, 7, plan.Size())
	assert.True(t, plan.Contains("boundaries"))

	title := domain.TemplateFor(domain.DocumentTypeTitleCertificate)
	assert.Equal(t, 7, title.Size())
	assert.True(t, title.Contains("encumbrances"))
}

func TestTemplateFor_GenericIsOpen(t *testing.T) {
	g := domain.TemplateFor(domain.DocumentTypeGeneric)
	assert.True(t, g.Open())
	assert.Equal(t, 0, g.Size())
}

func TestTemplateFor_UnknownFallsBackToGeneric(t *testing.T) {
	g := domain.TemplateFor(domain.DocumentType("mortgage-bond"))
	assert.True(t, g.Open())
}

func TestFieldTemplate_NewFieldsIsAllSentinelInTemplateOrder(t *testing.T) {
	tmpl := domain.TemplateFor(domain.DocumentTypeTitleCertificate)
	f := tmpl.NewFields()

	assert.Equal(t, tmpl.FieldNames, f.Keys())
	for _, k := range f.Keys() {
		v, ok := f.Get(k)
		assert.True(t, ok)
		assert.Equal(t, domain.NotSpecified, v)
	}
	assert.Equal(t, 0, f.FilledCount())
}
