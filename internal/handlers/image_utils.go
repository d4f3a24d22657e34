package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"soravault/internal/models"
)

// collectImageFiles gathers every file sent under the given form keys.
func collectImageFiles(form *multipart.Form, keys ...string) []*multipart.FileHeader {
	if form == nil {
		return nil
	}

	var result []*multipart.FileHeader
	for _, key := range keys {
		if headers, ok := form.File[key]; ok {
			result = append(result, headers...)
		}
	}
	return result
}

// readUpload returns the uploaded image bytes. Clients either post a
// multipart form (file under one of keys) or the raw image as the body.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64, keys ...string) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", models.ErrInvalidInput, err)
		}
		return checkUploadSize(data, maxBytes)
	}

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("%w: invalid multipart form: %v", models.ErrInvalidInput, err)
	}
	files := collectImageFiles(r.MultipartForm, keys...)
	if len(files) == 0 {
		return nil, models.Invalid(keys[0], "file is required")
	}

	f, err := files[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return checkUploadSize(data, maxBytes)
}

func checkUploadSize(data []byte, maxBytes int64) ([]byte, error) {
	if len(data) == 0 {
		return nil, models.Invalid("file", "is empty")
	}
	if int64(len(data)) > maxBytes {
		return nil, models.Invalid("file", "is too large")
	}
	return data, nil
}
