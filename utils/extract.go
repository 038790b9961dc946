package utils

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ExtractionError marks an upload that could not be converted to text.
// It is surfaced to the caller as-is and never retried.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return "extraction failed: " + e.Reason
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ExtractPDFText returns the plain text of an uploaded PDF.
func ExtractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Reason: "malformed PDF", Err: err}
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Reason: "reading PDF text", Err: err}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", &ExtractionError{Reason: "reading PDF text", Err: err}
	}
	return buf.String(), nil
}

// ExtractPlainText decodes an uploaded text file, rejecting non-UTF-8 input.
func ExtractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &ExtractionError{Reason: "file is not valid UTF-8 text"}
	}
	return string(data), nil
}
