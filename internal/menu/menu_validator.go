package menu

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"serveur/internal/ocr"
)

var ErrInvalidUpload = errors.New("invalid upload")

type UploadLimits struct {
	MinBytes int64
	MaxBytes int64
}

var allowedContentTypes = map[string]bool{
	"":                         true,
	"application/pdf":          true,
	"application/x-pdf":        true,
	"application/octet-stream": true,
}

func ValidateFileExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext != "" && ext != ".pdf" {
		return fmt.Errorf("%w: file type %s not allowed", ErrInvalidUpload, ext)
	}

	return nil
}

func ValidateContentType(contentType string) error {
	mediaType := ""
	if contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return fmt.Errorf("%w: bad content type", ErrInvalidUpload)
		}
		mediaType = strings.ToLower(parsed)
	}

	if !allowedContentTypes[mediaType] {
		return fmt.Errorf("%w: content type %s not allowed", ErrInvalidUpload, mediaType)
	}
	return nil
}

// ValidateUpload runs every synchronous check before any external call.
func ValidateUpload(in CreateInput, limits UploadLimits) error {
	size := int64(len(in.PDF))

	switch {
	case size == 0:
		return fmt.Errorf("%w: empty file", ErrInvalidUpload)
	case limits.MinBytes > 0 && size < limits.MinBytes:
		return fmt.Errorf("%w: file too small", ErrInvalidUpload)
	case limits.MaxBytes > 0 && size > limits.MaxBytes:
		return fmt.Errorf("%w: file too large", ErrInvalidUpload)
	}

	if err := ValidateFileExtension(in.Filename); err != nil {
		return err
	}
	if err := ValidateContentType(in.ContentType); err != nil {
		return err
	}
	if !ocr.IsPDF(in.PDF) {
		return fmt.Errorf("%w: not a PDF", ErrInvalidUpload)
	}

	return nil
}
