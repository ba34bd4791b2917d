// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// maxUploadSize bounds a single uploaded image (10 MB).
const maxUploadSize = 10 << 20

// allowedImageTypes are the sniffed content types accepted for article
// images.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Uploads writes article images under a local media directory and returns
// the relative path stored on the record. Object storage is out of scope;
// the stored path is an opaque reference to the API's clients.
type Uploads struct {
	dir string
}

// NewUploads creates an upload writer rooted at dir.
func NewUploads(dir string) *Uploads {
	return &Uploads{dir: dir}
}

// Save validates and persists one uploaded image, returning the relative
// media path. The content type is sniffed from the file's first bytes, not
// trusted from the client.
func (u *Uploads) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxUploadSize {
		return "", fmt.Errorf("file %q too large", fh.Filename)
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	sniff := make([]byte, 512)
	n, err := file.Read(sniff)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(sniff[:n])
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("file type %q is not allowed", contentType)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	ext := filepath.Ext(fh.Filename)
	if ext == "" {
		ext = extensionFromType(contentType)
	}

	now := time.Now()
	rel := filepath.Join(
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		uuid.New().String()+ext,
	)
	dst := filepath.Join(u.dir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write media file: %w", err)
	}
	return filepath.ToSlash(filepath.Join("media", rel)), nil
}

// extensionFromType maps a sniffed content type to a file extension when
// the upload's filename carries none.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
