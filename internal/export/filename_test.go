package export_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"propintel/internal/export"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "deed_batch_2026", export.SanitizeFilename("deed batch 2026"))
	assert.Equal(t, "batch_1423", export.SanitizeFilename("batch/1423!"))
	assert.Equal(t, "already-clean_name", export.SanitizeFilename("already-clean_name"))
	assert.Equal(t, "a_b", export.SanitizeFilename("a   ...   b"))
	assert.Equal(t, "trimmed", export.SanitizeFilename("__trimmed__"))
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	long := strings.Repeat("a", 150)
	assert.Len(t, export.SanitizeFilename(long), 100)
}

func TestBuildFilename(t *testing.T) {
	got := export.BuildFilename("batch 1423", "csv")

	date := time.Now().Format("2006-01-02")
	assert.Equal(t, fmt.Sprintf("batch_1423_%s.csv", date), got)
}
