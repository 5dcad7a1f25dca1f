package storage

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorage persists uploaded photos on disk under a base directory and
// maps them to URLs below a configured base path.
type LocalStorage struct {
	baseDir      string
	baseURL      string
	allowedMIMEs map[string]struct{}
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir, baseURL string, allowedMIMEs []string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if baseURL == "" {
		baseURL = "/uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}

	mimes := make(map[string]struct{}, len(allowedMIMEs))
	for _, m := range allowedMIMEs {
		mimes[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}

	return &LocalStorage{
		baseDir:      baseDir,
		baseURL:      strings.TrimRight(baseURL, "/"),
		allowedMIMEs: mimes,
	}, nil
}

// Save streams the upload into a uniquely named file and returns its URL.
func (s *LocalStorage) Save(filename, contentType string, r io.Reader) (string, error) {
	if len(s.allowedMIMEs) > 0 {
		mediaType := contentType
		if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
			mediaType = parsed
		}
		if _, ok := s.allowedMIMEs[strings.ToLower(mediaType)]; !ok {
			return "", fmt.Errorf("unsupported photo type %q", contentType)
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	stored := fmt.Sprintf("%s/%s%s", time.Now().UTC().Format("2006-01"), uuid.NewString(), ext)

	path := filepath.Join(s.baseDir, filepath.FromSlash(stored))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare uploads directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write photo stream: %w", err)
	}

	return s.baseURL + "/" + stored, nil
}

// Delete removes a stored photo if present. Unknown URLs are ignored.
func (s *LocalStorage) Delete(url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return nil
	}
	path := filepath.Join(s.baseDir, filepath.FromSlash(rel))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete photo file: %w", err)
	}
	return nil
}

// Dir exposes the base directory for static file serving.
func (s *LocalStorage) Dir() string {
	return s.baseDir
}
