package validator

import (
	"testing"

	"github.com/futig/rag-client/internal/config"
	"github.com/futig/rag-client/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestValidateUpload(t *testing.T) {
	v := NewFileValidator(config.FileUploadConfig{
		MaxFileSize:       10,
		AllowedExtensions: []string{"pdf", ".TXT", " "},
	})

	tests := []struct {
		name    string
		file    *entity.FileData
		wantErr error
	}{
		{name: "nil file", file: nil, wantErr: entity.ErrNoFileSelected},
		{name: "blank name", file: &entity.FileData{Filename: "  ", Content: []byte("x")}, wantErr: entity.ErrNoFileSelected},
		{name: "wrong extension", file: &entity.FileData{Filename: "a.docx", Content: []byte("x")}, wantErr: entity.ErrInvalidExtension},
		{name: "empty content", file: &entity.FileData{Filename: "a.pdf"}, wantErr: entity.ErrEmptyFile},
		{name: "too large", file: &entity.FileData{Filename: "a.pdf", Content: make([]byte, 11)}, wantErr: entity.ErrFileTooLarge},
		{name: "upper-case extension", file: &entity.FileData{Filename: "NOTES.TXT", Content: []byte("x")}},
		{name: "ok", file: &entity.FileData{Filename: "a.pdf", Content: make([]byte, 10)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.file)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateUpload_AnyExtensionWhenUnset(t *testing.T) {
	v := NewFileValidator(config.FileUploadConfig{MaxFileSize: 100})

	assert.NoError(t, v.ValidateUpload(&entity.FileData{Filename: "scan.png", Content: []byte("x")}))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_report_v2.pdf", SanitizeFilename("/tmp/docs/my report (v2).pdf"))
}
