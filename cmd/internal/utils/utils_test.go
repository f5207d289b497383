package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckFileExt(t *testing.T) {
	valid := []string{"pdf", "md"}

	ext, ok := CheckFileExt("Notes.PDF", valid)
	assert.True(t, ok)
	assert.Equal(t, ".pdf", ext)

	ext, ok = CheckFileExt("script.exe", valid)
	assert.False(t, ok)
	assert.Equal(t, ".exe", ext)

	ext, ok = CheckFileExt("README", valid)
	assert.False(t, ok)
	assert.Empty(t, ext)
}

func TestSanitize(t *testing.T) {
	path := "  /uploads/a.pdf "
	req := struct {
		Name string
		Path *string
		Tags []string
	}{
		Name: "  Algebra ",
		Path: &path,
		Tags: []string{" a ", "b "},
	}

	Sanitize(&req)

	assert.Equal(t, "Algebra", req.Name)
	assert.Equal(t, "/uploads/a.pdf", *req.Path)
	assert.Equal(t, []string{"a", "b"}, req.Tags)
}

func TestFormatEpoch(t *testing.T) {
	assert.Equal(t, "2024-01-02T03:04:05Z", FormatEpoch(1704164645000))
	assert.Nil(t, FormatEpochPtr(nil))

	millis := int64(0)
	assert.Equal(t, "1970-01-01T00:00:00Z", *FormatEpochPtr(&millis))
}
