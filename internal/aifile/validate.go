// Package aifile bridges Adobe Illustrator design files (PDF-compatible
// since CS) into the page geometry the analysis pipeline consumes.
package aifile

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

const (
	pdfHeader = "%PDF"
	epsHeader = "%!PS"

	// DefaultMaxFileSize is the upload limit for design files.
	DefaultMaxFileSize = 100 * 1024 * 1024
)

// Options control buffer validation.
type Options struct {
	// MaxSize is the maximum accepted file size in bytes (0 = default).
	MaxSize int64
	// RequireExtension enforces a .ai or .pdf file name when set.
	RequireExtension bool
}

// Result is the outcome of design-file validation.
type Result struct {
	Valid    bool     `json:"valid"`
	Version  string   `json:"version,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

var illustratorVersionRe = regexp.MustCompile(`Adobe Illustrator(?:\(R\))?\s*([\w.]+)`)

// ValidateBuffer checks a design-file buffer for integrity: extension,
// size, PDF/EPS header and Illustrator version. Header problems are
// warnings since some legacy exports omit them; size problems are errors.
func ValidateBuffer(buf []byte, fileName string, opts Options) Result {
	var res Result

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	if opts.RequireExtension && fileName != "" &&
		!strings.HasSuffix(fileName, ".ai") && !strings.HasSuffix(fileName, ".pdf") {
		res.Errors = append(res.Errors, "file extension is not .ai or .pdf")
	}

	switch {
	case len(buf) == 0:
		res.Errors = append(res.Errors, "file is empty")
	case int64(len(buf)) > maxSize:
		res.Errors = append(res.Errors,
			fmt.Sprintf("file exceeds %dMB limit", maxSize/(1024*1024)))
	case len(buf) < 4:
		res.Errors = append(res.Errors, "file too small to be a design file")
	default:
		header := string(buf[:4])
		// PDF-based .ai files start with %PDF, EPS-based ones with %!PS.
		if header != pdfHeader && header != epsHeader {
			res.Warnings = append(res.Warnings,
				"unrecognized file header; expected a PDF- or EPS-based Illustrator file")
		}
		res.Version = sniffVersion(buf)
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// sniffVersion scans the buffer for an Illustrator creator string.
// Metadata usually sits near one of the ends of the file.
func sniffVersion(buf []byte) string {
	const window = 64 * 1024
	head := buf
	if len(head) > window {
		head = head[:window]
	}
	if m := illustratorVersionRe.FindSubmatch(head); m != nil {
		return string(m[1])
	}
	if len(buf) > window {
		tail := buf[len(buf)-window:]
		if m := illustratorVersionRe.FindSubmatch(tail); m != nil {
			return string(m[1])
		}
	}
	if bytes.HasPrefix(buf, []byte(pdfHeader)) {
		// PDF-based implies CS or later.
		return "CS6+"
	}
	return ""
}
