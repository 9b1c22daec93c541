// Package export produces downloadable resume artifacts and optionally archives
// them to an S3-compatible bucket.
package export

import (
	"fmt"
	"strings"
)

// Format is an export file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
	FormatJSON Format = "json"
	FormatTeX  Format = "tex"
)

// Formats lists the supported formats in menu order.
func Formats() []Format {
	return []Format{FormatPDF, FormatDOCX, FormatTXT, FormatJSON, FormatTeX}
}

// UnsupportedFormatError is returned for an unknown format name.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format: %q", e.Format)
}

// ParseFormat maps a case-insensitive name to a Format. An empty name means PDF.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatPDF, nil
	}
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", &UnsupportedFormatError{Format: s}
}

// Filename is the download name for the format.
func (f Format) Filename() string {
	return "my-resume." + string(f)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatJSON:
		return "application/json"
	case FormatTeX:
		return "application/x-tex"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Label is the human name used in notifications.
func (f Format) Label() string {
	switch f {
	case FormatPDF:
		return "PDF"
	case FormatDOCX:
		return "Word"
	case FormatTXT:
		return "Text"
	case FormatJSON:
		return "JSON"
	case FormatTeX:
		return "LaTeX"
	}
	return strings.ToUpper(string(f))
}
