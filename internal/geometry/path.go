package geometry

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// SegmentKind classifies a path command into its drawing primitive.
type SegmentKind int

const (
	// SegmentMove is a moveto command (M/m).
	SegmentMove SegmentKind = iota
	// SegmentLine is a lineto command (L/l/H/h/V/v).
	SegmentLine
	// SegmentCurve is a cubic Bezier command (C/c/S/s).
	SegmentCurve
	// SegmentQuad is a quadratic Bezier command (Q/q/T/t).
	SegmentQuad
	// SegmentArc is an elliptical arc command (A/a).
	SegmentArc
	// SegmentClose is a closepath command (Z/z).
	SegmentClose
)

// String returns the segment kind name.
func (k SegmentKind) String() string {
	switch k {
	case SegmentMove:
		return "move"
	case SegmentLine:
		return "line"
	case SegmentCurve:
		return "curve"
	case SegmentQuad:
		return "quad"
	case SegmentArc:
		return "arc"
	case SegmentClose:
		return "close"
	default:
		return "unknown"
	}
}

// Segment is one parsed path command with its numeric arguments.
type Segment struct {
	Kind     SegmentKind
	Relative bool
	Args     []float64
}

// ErrEmptyPath indicates the path data string contains no commands.
var ErrEmptyPath = errors.New("geometry: empty path data")

var pathCommandRe = regexp.MustCompile(`([MmLlHhVvCcSsQqTtAaZz])([^MmLlHhVvCcSsQqTtAaZz]*)`)

// ParsePath parses SVG-style path data into typed segments. Unknown bytes
// between commands are ignored; a path without any recognized command is an
// error.
func ParsePath(d string) ([]Segment, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, ErrEmptyPath
	}

	matches := pathCommandRe.FindAllStringSubmatch(d, -1)
	if len(matches) == 0 {
		return nil, ErrEmptyPath
	}

	segments := make([]Segment, 0, len(matches))
	for _, m := range matches {
		cmd := m[1]
		seg := Segment{
			Kind:     commandKind(cmd),
			Relative: cmd == strings.ToLower(cmd) && cmd != strings.ToUpper(cmd),
			Args:     parseArgs(m[2]),
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func commandKind(cmd string) SegmentKind {
	switch strings.ToUpper(cmd) {
	case "M":
		return SegmentMove
	case "L", "H", "V":
		return SegmentLine
	case "C", "S":
		return SegmentCurve
	case "Q", "T":
		return SegmentQuad
	case "A":
		return SegmentArc
	default:
		return SegmentClose
	}
}

func parseArgs(s string) []float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", " ")
	fields := strings.Fields(s)
	args := make([]float64, 0, len(fields))
	for _, f := range fields {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			args = append(args, v)
		}
	}
	return args
}

// HasArc reports whether the path data contains an arc command.
// Malformed path data is treated as arc-free.
func HasArc(d string) bool {
	return hasKind(d, SegmentArc)
}

// HasLine reports whether the path data contains a line command.
// Malformed path data is treated as line-free.
func HasLine(d string) bool {
	return hasKind(d, SegmentLine)
}

func hasKind(d string, kind SegmentKind) bool {
	segments, err := ParsePath(d)
	if err != nil {
		return false
	}
	for _, s := range segments {
		if s.Kind == kind {
			return true
		}
	}
	return false
}
