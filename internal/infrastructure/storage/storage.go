// Package storage provides file storage backends for company branding
// assets and generated invoice documents.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyKey            = errors.New("storage key is required")
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidKey          = errors.New("storage key contains invalid path elements")
)

// FileStorage abstracts where uploaded and generated files live.
// Save returns a URL under which the stored file can be fetched.
type FileStorage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	URL(key string) string
}

// allowedImageExtensions maps accepted upload extensions to content types.
var allowedImageExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// ImageExtension validates an uploaded filename and returns its normalized
// extension (including the leading dot).
func ImageExtension(filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return "", ErrUnsupportedFileType
	}
	return ext, nil
}

// ImageContentType returns the content type for a validated image extension.
func ImageContentType(ext string) string {
	return allowedImageExtensions[strings.ToLower(ext)]
}

// ImageExtensionVariants returns every accepted extension except the given
// one. The upload flow deletes these variants so a company holds at most one
// file per asset kind.
func ImageExtensionVariants(ext string) []string {
	variants := make([]string, 0, len(allowedImageExtensions)-1)
	for candidate := range allowedImageExtensions {
		if candidate != strings.ToLower(ext) {
			variants = append(variants, candidate)
		}
	}
	return variants
}

// BrandingKey builds the storage key for a company branding asset.
// Layout: companies/{company_id}/{kind}{ext}
func BrandingKey(companyID uuid.UUID, kind, ext string) string {
	return fmt.Sprintf("companies/%s/%s%s", companyID, kind, strings.ToLower(ext))
}

// InvoiceKey builds the storage key for a generated invoice document.
// Layout: invoices/{company_id}/{invoice_id}.pdf
func InvoiceKey(companyID, invoiceID uuid.UUID) string {
	return fmt.Sprintf("invoices/%s/%s.pdf", companyID, invoiceID)
}

// validateKey rejects keys that escape the storage root.
func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
