package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propintel/internal/domain"
)

func TestFields_SetPreservesInsertionOrder(t *testing.T) {
	f := domain.NewFields()
	f.Set("owner", "Jane Doe")
	f.Set("address", "12 Galle Road")
	f.Set("extent", "2 acres")

	assert.Equal(t, []string{"owner", "address", "extent"}, f.Keys())
	assert.Equal(t, 3, f.Len())
}

func TestFields_SetOverwriteKeepsPosition(t *testing.T) {
	f := domain.NewFields()
	f.Set("owner", "Jane Doe")
	f.Set("address", "12 Galle Road")
	f.Set("owner", "John Doe")

	assert.Equal(t, []string{"owner", "address"}, f.Keys())
	assert.Equal(t, "John Doe", f.Value("owner"))
}

func TestFields_IsFilled(t *testing.T) {
	f := domain.NewFields()
	f.Set("owner", "Jane Doe")
	f.Set("extent", domain.NotSpecified)
	f.Set("address", "")

	assert.True(t, f.IsFilled("owner"))
	assert.False(t, f.IsFilled("extent"))
	assert.False(t, f.IsFilled("address"))
	assert.False(t, f.IsFilled("missing"))
	assert.Equal(t, 1, f.FilledCount())
}

func TestFields_MarshalJSONKeepsOrder(t *testing.T) {
	f := domain.NewFields()
	f.Set("plan-number", "1234")
	f.Set("surveyor", "K. Perera")
	f.Set("extent", domain.NotSpecified)

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"plan-number":"1234","surveyor":"K. Perera","extent":"Not specified"}`, string(data))
}

func TestFields_UnmarshalJSONPreservesSourceOrder(t *testing.T) {
	var f domain.Fields
	err := json.Unmarshal([]byte(`{"b":"2","a":"1","c":"3"}`), &f)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, f.Keys())
	assert.Equal(t, "1", f.Value("a"))
}

func TestFields_UnmarshalJSONRejectsNonObject(t *testing.T) {
	var f domain.Fields
	assert.Error(t, json.Unmarshal([]byte(`["a","b"]`), &f))
}

func TestFields_UnmarshalJSONRejectsNonStringValue(t *testing.T) {
	var f domain.Fields
	err := json.Unmarshal([]byte(`{"a":{"nested":true}}`), &f)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `value for "a"`)
}

func TestFields_MarshalUnmarshalRoundTrip(t *testing.T) {
	f := domain.TemplateFor(domain.DocumentTypeSurveyPlan).NewFields()
	f.Set("plan-number", "PP/1021")

	data, err := json.Marshal(f)
	require.NoError(t, err)

	var back domain.Fields
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, f.Keys(), back.Keys())
	assert.Equal(t, "PP/1021", back.Value("plan-number"))
}

func TestFields_CloneIsIndependent(t *testing.T) {
	f := domain.NewFields()
	f.Set("owner", "Jane Doe")

	c := f.Clone()
	c.Set("owner", "John Doe")
	c.Set("extent", "10 perches")

	assert.Equal(t, "Jane Doe", f.Value("owner"))
	assert.False(t, f.Has("extent"))
	assert.Equal(t, "John Doe", c.Value("owner"))
}
