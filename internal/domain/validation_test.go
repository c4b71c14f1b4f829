package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateDocumentUpload(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		ctype   string
		wantErr bool
		wantMsg string
	}{
		{"pdf ok", 1024, "application/pdf", false, ""},
		{"png ok", 1024, "image/png", false, ""},
		{"jpeg ok", 1024, "image/jpeg", false, ""},
		{"docx ok", 1024, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", false, ""},
		{"exactly 10MiB ok", MaxDocumentSize, "application/pdf", false, ""},
		{"empty file", 0, "application/pdf", true, "file is empty"},
		{"negative size", -1, "application/pdf", true, "file is empty"},
		{"one byte over", MaxDocumentSize + 1, "application/pdf", true, "exceeds maximum limit"},
		{"text rejected", 1024, "text/plain", true, "invalid file type"},
		{"json rejected", 1024, "application/json", true, "invalid file type"},
		// Type is checked before size, so an oversized text file reports the type.
		{"oversized text reports type", MaxDocumentSize + 1, "text/plain", true, "invalid file type"},
		// Emptiness wins over everything.
		{"empty text reports emptiness", 0, "text/plain", true, "file is empty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDocumentUpload(tc.size, tc.ctype)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrBadRequest) {
				t.Fatalf("want ErrBadRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("want message containing %q, got %q", tc.wantMsg, err)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	ok := []string{"anna@example.com", "a.b+c@sub.domain.org"}
	bad := []string{"", "plain", "a@b", "a b@example.com", "@example.com", "a@@example.com"}
	for _, s := range ok {
		if !ValidEmail(s) {
			t.Errorf("ValidEmail(%q) = false, want true", s)
		}
	}
	for _, s := range bad {
		if ValidEmail(s) {
			t.Errorf("ValidEmail(%q) = true, want false", s)
		}
	}
}
