package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("images", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write: %v", err)
	}
	w.Close()

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	return req.MultipartForm.File["images"][0]
}

func TestSaveStoresUnderGeneratedName(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	fh := fileHeader(t, "photo.JPG", []byte("jpeg-bytes"))

	url, err := store.Save(fh, "abc123")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if url != "/uploads/abc123.jpg" {
		t.Fatalf("unexpected url %q", url)
	}
	data, err := os.ReadFile(filepath.Join(store.Dir(), "abc123.jpg"))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("content mangled: %q", data)
	}
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	fh := fileHeader(t, "script.exe", []byte("nope"))
	if _, err := store.Save(fh, "x"); !errors.Is(err, ErrBadType) {
		t.Fatalf("expected ErrBadType, got %v", err)
	}
}
