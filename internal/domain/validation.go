package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxDocumentSize caps uploads at 10 MiB; exactly 10 MiB is still accepted.
const MaxDocumentSize = 10 << 20

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// AllowedContentType: images, PDF and Word documents only.
func AllowedContentType(ct string) bool {
	return strings.HasPrefix(ct, "image/") ||
		ct == "application/pdf" ||
		ct == "application/msword" ||
		ct == "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// ValidateDocumentUpload checks the upload rules in order and stops at the
// first violation.
func ValidateDocumentUpload(size int64, contentType string) error {
	if size <= 0 {
		return fmt.Errorf("%w: file is empty", ErrBadRequest)
	}
	if !AllowedContentType(contentType) {
		return fmt.Errorf("%w: invalid file type %q, only images, PDF and Word documents are allowed", ErrBadRequest, contentType)
	}
	if size > MaxDocumentSize {
		return fmt.Errorf("%w: file size %d exceeds maximum limit of 10MB", ErrBadRequest, size)
	}
	return nil
}
