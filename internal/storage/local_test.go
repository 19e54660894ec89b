package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	body := []byte("%PDF-1.4 contenu du mémoire")
	loc, err := l.Save(ctx, "mémoire.pdf", bytes.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(loc, "local://") {
		t.Fatalf("locator %q missing local scheme", loc)
	}

	got, err := l.Get(ctx, loc)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("Get returned %d bytes, want %d", len(got), len(body))
	}

	if err := l.Delete(ctx, loc); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := l.Get(ctx, loc); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestLocalSizeMismatchLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if _, err := l.Save(context.Background(), "a.pdf", strings.NewReader("abc"), 99); err == nil {
		t.Fatal("Save with wrong size should fail")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("failed save left %d files behind", len(entries))
	}
}

func TestLocalUploadFilenameIsFlattened(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	l, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	// 上传名带路径时只保留 basename
	loc, err := l.Save(ctx, "../../etc/rapport.pdf", strings.NewReader("pdf"), 3)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(loc, "_rapport.pdf") {
		t.Fatalf("locator %q should only keep the basename", loc)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("want exactly one stored file, got %d", len(entries))
	}
	if filepath.Dir(filepath.Join(dir, entries[0].Name())) != dir {
		t.Fatalf("file escaped storage dir: %q", entries[0].Name())
	}
}

func TestLocalRejectsTraversalLocator(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if _, err := l.Get(context.Background(), "local://../secret.pdf"); !errors.Is(err, ErrBadLocator) {
		t.Fatalf("traversal locator: err = %v, want ErrBadLocator", err)
	}
}

func TestLocalDownloadURLIsInline(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	loc, err := l.Save(ctx, "a.pdf", strings.NewReader("pdf"), 3)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	url, err := l.DownloadURL(ctx, loc, 0)
	if err != nil || url != "" {
		t.Fatalf("DownloadURL = (%q, %v), want empty inline marker", url, err)
	}
}
