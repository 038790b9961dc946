package utils

import (
	"errors"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	text, err := ExtractPlainText([]byte("hello document\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello document\n" {
		t.Errorf("expected passthrough, got %q", text)
	}
}

func TestExtractPlainTextRejectsInvalidUTF8(t *testing.T) {
	_, err := ExtractPlainText([]byte{0xff, 0xfe, 0x00, 0x41})
	if err == nil {
		t.Fatal("expected error for invalid UTF-8 input")
	}
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Errorf("expected ExtractionError, got %T", err)
	}
}

func TestExtractPDFTextRejectsMalformedInput(t *testing.T) {
	_, err := ExtractPDFText([]byte("this is not a pdf"))
	if err == nil {
		t.Fatal("expected error for malformed PDF input")
	}
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Errorf("expected ExtractionError, got %T", err)
	}
}
