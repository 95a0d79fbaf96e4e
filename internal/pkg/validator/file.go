package validator

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/futig/rag-client/internal/config"
	"github.com/futig/rag-client/internal/entity"
)

// Validator checks a document before it is sent for indexing.
type Validator struct {
	cfg     config.FileUploadConfig
	allowed map[string]bool
}

func NewFileValidator(cfg config.FileUploadConfig) *Validator {
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}

	return &Validator{cfg: cfg, allowed: allowed}
}

// ValidateUpload reports why a file cannot be uploaded, or nil.
// A nil file or an empty name means nothing was selected.
func (v *Validator) ValidateUpload(file *entity.FileData) error {
	if file == nil || strings.TrimSpace(file.Filename) == "" {
		return entity.ErrNoFileSelected
	}

	if len(v.allowed) > 0 {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !v.allowed[ext] {
			return fmt.Errorf("%w: %q (allowed: %s)", entity.ErrInvalidExtension, ext, v.allowedList())
		}
	}

	if len(file.Content) == 0 {
		return fmt.Errorf("%w: %s", entity.ErrEmptyFile, file.Filename)
	}

	if int64(len(file.Content)) > v.cfg.MaxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, file.Filename, len(file.Content), v.cfg.MaxFileSize)
	}

	return nil
}

func (v *Validator) allowedList() string {
	exts := make([]string, 0, len(v.allowed))
	for ext := range v.allowed {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	slices.Sort(exts)
	return strings.Join(exts, ", ")
}

// SanitizeFilename drops any directory part and the characters some
// backends reject in multipart file names.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
