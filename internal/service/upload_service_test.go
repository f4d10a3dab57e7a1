package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secondhand/internal/errors"
)

// fileHeader builds a parsed multipart file the way echo hands it over.
func fileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestUploadService_StoreImage(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, 1024, nil)
	png := []byte{0x89, 'P', 'N', 'G'}

	stored, err := svc.StoreImage(context.Background(), "avatar_7", fileHeader(t, "Me.PNG", "image/png", png))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.FileName, "avatar_7_"))
	assert.True(t, strings.HasSuffix(stored.FileName, ".png"))
	assert.Equal(t, "data:image/png;base64,iVBORw==", stored.DataURI)

	onDisk, err := os.ReadFile(filepath.Join(dir, stored.FileName))
	require.NoError(t, err)
	assert.Equal(t, png, onDisk)
}

func TestUploadService_StoreImage_NoExtension(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, 1024, nil)

	stored, err := svc.StoreImage(context.Background(), "product", fileHeader(t, "photo", "image/jpeg", []byte{0xFF, 0xD8}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.FileName, "product_"))
	assert.True(t, strings.HasSuffix(stored.FileName, ".jpg"))
	assert.FileExists(t, filepath.Join(dir, stored.FileName))
}

func TestUploadService_StoreImage_Rejects(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 4, nil)

	_, err := svc.StoreImage(context.Background(), "product", fileHeader(t, "notes.txt", "text/plain", []byte("hi")))
	assert.Equal(t, errors.ErrNotAnImage, err)

	_, err = svc.StoreImage(context.Background(), "product", fileHeader(t, "big.jpg", "image/jpeg", []byte("too large")))
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))

	_, err = svc.StoreImage(context.Background(), "product", nil)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}

func TestUploadService_NormalizeBase64(t *testing.T) {
	svc := NewUploadService(t.TempDir(), 0, nil)

	tests := []struct {
		name    string
		input   interface{}
		want    interface{}
		wantErr bool
	}{
		{"single string", "data:image/png;base64,AA==", "data:image/png;base64,AA==", false},
		{"json array string kept verbatim", `["a","b"]`, `["a","b"]`, false},
		{"list", []interface{}{"a", "b"}, []string{"a", "b"}, false},
		{"mixed list", []interface{}{"a", 1}, nil, true},
		{"blank", "  ", nil, true},
		{"missing", nil, nil, true},
		{"number", 42, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.NormalizeBase64(tt.input)
			if tt.wantErr {
				assert.Equal(t, errors.KindValidation, errors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
