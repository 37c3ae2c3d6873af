package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageExtension(t *testing.T) {
	t.Run("accepts png, jpg and jpeg", func(t *testing.T) {
		for _, name := range []string{"logo.png", "logo.jpg", "photo.jpeg", "LOGO.PNG"} {
			ext, err := ImageExtension(name)
			require.NoError(t, err, name)
			assert.NotEmpty(t, ext)
		}
	})

	t.Run("rejects other types", func(t *testing.T) {
		for _, name := range []string{"doc.pdf", "image.gif", "archive.zip", "noext"} {
			_, err := ImageExtension(name)
			assert.ErrorIs(t, err, ErrUnsupportedFileType, name)
		}
	})
}

func TestImageContentType(t *testing.T) {
	assert.Equal(t, "image/png", ImageContentType(".png"))
	assert.Equal(t, "image/jpeg", ImageContentType(".jpg"))
	assert.Equal(t, "image/jpeg", ImageContentType(".JPEG"))
}

func TestImageExtensionVariants(t *testing.T) {
	variants := ImageExtensionVariants(".png")
	assert.Len(t, variants, 2)
	assert.NotContains(t, variants, ".png")
	assert.Contains(t, variants, ".jpg")
	assert.Contains(t, variants, ".jpeg")
}

func TestBrandingKey(t *testing.T) {
	companyID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	key := BrandingKey(companyID, "logo", ".png")
	assert.Equal(t, "companies/11111111-2222-3333-4444-555555555555/logo.png", key)
}

func TestInvoiceKey(t *testing.T) {
	companyID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	invoiceID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	key := InvoiceKey(companyID, invoiceID)
	assert.Equal(t, "invoices/11111111-2222-3333-4444-555555555555/aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee.pdf", key)
}

func TestLocalFileStorage(t *testing.T) {
	newStorage := func(t *testing.T) *LocalFileStorage {
		t.Helper()
		s, err := NewLocalFileStorage(config.LocalStorageConfig{
			Dir:     t.TempDir(),
			BaseURL: "/uploads",
		})
		require.NoError(t, err)
		return s
	}

	ctx := context.Background()

	t.Run("save returns public url", func(t *testing.T) {
		s := newStorage(t)
		url, err := s.Save(ctx, "companies/abc/logo.png", []byte("fake-png"), "image/png")
		require.NoError(t, err)
		assert.Equal(t, "/uploads/companies/abc/logo.png", url)

		exists, err := s.Exists(ctx, "companies/abc/logo.png")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("save overwrites existing file", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.Save(ctx, "companies/abc/logo.png", []byte("v1"), "image/png")
		require.NoError(t, err)
		_, err = s.Save(ctx, "companies/abc/logo.png", []byte("v2"), "image/png")
		require.NoError(t, err)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.Save(ctx, "companies/abc/logo.png", []byte("x"), "image/png")
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, "companies/abc/logo.png"))
		require.NoError(t, s.Delete(ctx, "companies/abc/logo.png"))

		exists, err := s.Exists(ctx, "companies/abc/logo.png")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.Save(ctx, "../escape.png", []byte("x"), "image/png")
		assert.ErrorIs(t, err, ErrInvalidKey)

		_, err = s.Save(ctx, "/absolute.png", []byte("x"), "image/png")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		s := newStorage(t)
		_, err := s.Save(ctx, "", []byte("x"), "image/png")
		assert.ErrorIs(t, err, ErrEmptyKey)
	})
}

func TestPublicBaseURL(t *testing.T) {
	t.Run("aws default", func(t *testing.T) {
		url := publicBaseURL("", "hrms-assets", "ap-south-1", false)
		assert.Equal(t, "https://hrms-assets.s3.ap-south-1.amazonaws.com", url)
	})

	t.Run("custom endpoint path style", func(t *testing.T) {
		url := publicBaseURL("http://localhost:9000", "hrms-assets", "ap-south-1", true)
		assert.Equal(t, "http://localhost:9000/hrms-assets", url)
	})

	t.Run("custom endpoint virtual host style", func(t *testing.T) {
		url := publicBaseURL("https://storage.example.com", "hrms-assets", "ap-south-1", false)
		assert.Equal(t, "https://hrms-assets.storage.example.com", url)
	})
}
