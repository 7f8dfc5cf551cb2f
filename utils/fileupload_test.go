package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageFileAllowedFormats(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  bool
		wantCode string
	}{
		{"png allowed", "proof.png", 1024, false, ""},
		{"jpg allowed", "proof.jpg", 1024, false, ""},
		{"jpeg allowed", "proof.jpeg", 1024, false, ""},
		{"uppercase extension allowed", "PROOF.PNG", 1024, false, ""},
		{"pdf rejected", "proof.pdf", 1024, true, "INVALID_FILE_FORMAT"},
		{"no extension rejected", "proof", 1024, true, "INVALID_FILE_FORMAT"},
		{"too large", "proof.png", MaxFileSize + 1, true, "FILE_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := &multipart.FileHeader{
				Filename: tt.filename,
				Size:     tt.size,
			}

			err := ValidateImageFile(header)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			uploadErr, ok := err.(*FileUploadError)
			assert.True(t, ok, "error should be a FileUploadError")
			assert.Equal(t, tt.wantCode, uploadErr.Code)
		})
	}
}

func TestFileUploadErrorMessage(t *testing.T) {
	err := &FileUploadError{Code: "FILE_TOO_LARGE", Message: "too big"}
	assert.Equal(t, "too big", err.Error())
}
