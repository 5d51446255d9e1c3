package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// maxPDFBytes bounds a PDF downloaded from storage.
const maxPDFBytes = 64 << 20

// FileSource reads the PDF from local disk.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the PDF at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, nil
}

// Location returns the file path.
func (s *FileSource) Location() string { return s.path }

// SupabaseStorage downloads the PDF from a Supabase Storage bucket.
type SupabaseStorage struct {
	baseURL string
	apiKey  string
	object  string
	client  *http.Client
}

// NewStorageService creates a source for object ("bucket/path/to.pdf").
func NewStorageService(
	baseURL string,
	apiKey string,
	object string,
) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		object:  strings.TrimLeft(object, "/"),
		client:  http.DefaultClient,
	}
}

// Fetch downloads the object.
func (s *SupabaseStorage) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		s.baseURL+"/storage/v1/object/"+s.object,
		nil,
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Accept", "application/pdf")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", s.object, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("storage download %s failed: %s", s.object, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes+1))
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", s.object, err)
	}
	if len(data) > maxPDFBytes {
		return nil, fmt.Errorf("storage object %s exceeds %d bytes", s.object, maxPDFBytes)
	}
	return data, nil
}

// Location returns the storage object path.
func (s *SupabaseStorage) Location() string { return "storage:" + s.object }
