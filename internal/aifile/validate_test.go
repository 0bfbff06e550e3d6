package aifile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBuffer_ValidPDF(t *testing.T) {
	buf := []byte("%PDF-1.7\n% Adobe Illustrator 27.0\nstream...")
	res := ValidateBuffer(buf, "design.ai", Options{})

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "27.0", res.Version)
}

func TestValidateBuffer_ValidEPS(t *testing.T) {
	buf := []byte("%!PS-Adobe-3.0 EPSF-3.0\n%%Creator: Adobe Illustrator(R) 10.0\n")
	res := ValidateBuffer(buf, "legacy.ai", Options{})

	assert.True(t, res.Valid)
	assert.Equal(t, "10.0", res.Version)
}

func TestValidateBuffer_Empty(t *testing.T) {
	res := ValidateBuffer(nil, "design.ai", Options{})
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "empty")
}

func TestValidateBuffer_TooSmall(t *testing.T) {
	res := ValidateBuffer([]byte("%P"), "design.ai", Options{})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "too small")
}

func TestValidateBuffer_TooLarge(t *testing.T) {
	buf := bytes.Repeat([]byte("a"), 2048)
	res := ValidateBuffer(buf, "design.ai", Options{MaxSize: 1024})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "limit")
}

func TestValidateBuffer_UnknownHeaderIsWarning(t *testing.T) {
	buf := []byte("GIF89a not a design file at all")
	res := ValidateBuffer(buf, "design.ai", Options{})

	// Legacy exports sometimes lack the header, so this stays non-fatal.
	assert.True(t, res.Valid)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "header")
}

func TestValidateBuffer_ExtensionCheck(t *testing.T) {
	buf := []byte("%PDF-1.7\n")

	res := ValidateBuffer(buf, "design.svg", Options{RequireExtension: true})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "extension")

	for _, name := range []string{"design.ai", "design.pdf"} {
		res = ValidateBuffer(buf, name, Options{RequireExtension: true})
		assert.True(t, res.Valid, "file %s", name)
	}

	// Without the option any name passes.
	res = ValidateBuffer(buf, "design.svg", Options{})
	assert.True(t, res.Valid)
}

func TestSniffVersion_PDFFallback(t *testing.T) {
	res := ValidateBuffer([]byte("%PDF-1.7\nno creator metadata"), "design.ai", Options{})
	assert.Equal(t, "CS6+", res.Version)
}

func TestSniffVersion_TailMetadata(t *testing.T) {
	// Creator string past the head window is still found near the end.
	var sb strings.Builder
	sb.WriteString("%PDF-1.7\n")
	sb.WriteString(strings.Repeat("x", 80*1024))
	sb.WriteString("Adobe Illustrator 26.5\n%%EOF")

	res := ValidateBuffer([]byte(sb.String()), "design.ai", Options{})
	assert.True(t, res.Valid)
	assert.Equal(t, "26.5", res.Version)
}
