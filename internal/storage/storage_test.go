package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSplitLocator(t *testing.T) {
	cases := []struct {
		in         string
		scheme     string
		name       string
		wantErr    bool
	}{
		{"local://abc_rapport.pdf", "local", "abc_rapport.pdf", false},
		{"s3://abc_rapport.pdf", "s3", "abc_rapport.pdf", false},
		{"rapport.pdf", "", "", true},
		{"://x.pdf", "", "", true},
		{"local://", "", "", true},
		{"", "", "", true},
	}
	for _, tc := range cases {
		scheme, name, err := SplitLocator(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrBadLocator) {
				t.Errorf("SplitLocator(%q) err = %v, want ErrBadLocator", tc.in, err)
			}
			continue
		}
		if err != nil || scheme != tc.scheme || name != tc.name {
			t.Errorf("SplitLocator(%q) = (%q, %q, %v), want (%q, %q, nil)",
				tc.in, scheme, name, err, tc.scheme, tc.name)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"local://5f3a_rapport final.pdf", "rapport final.pdf"},
		{"s3://uuid_mémoire.pdf", "mémoire.pdf"},
		{"local://sans-prefixe.pdf", "sans-prefixe.pdf"},
		{"pas-un-locator", "document.pdf"},
	}
	for _, tc := range cases {
		if got := DisplayName(tc.in); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	body := []byte("%PDF-1.4 contenu")
	loc, err := m.Save(ctx, "rapport.pdf", bytes.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(loc, "mem://") {
		t.Fatalf("locator %q missing scheme prefix", loc)
	}
	if !strings.HasSuffix(loc, "_rapport.pdf") {
		t.Fatalf("locator %q should keep the original basename", loc)
	}

	got, err := m.Get(ctx, loc)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("Get = %q, want %q", got, body)
	}

	if err := m.Delete(ctx, loc); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(ctx, loc); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete: err = %v, want ErrNotFound", err)
	}
	if err := m.Delete(ctx, loc); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete twice: err = %v, want ErrNotFound", err)
	}
}

func TestMemorySizeMismatch(t *testing.T) {
	m := NewMemory()
	if _, err := m.Save(context.Background(), "a.pdf", strings.NewReader("abc"), 99); err == nil {
		t.Fatal("Save with wrong size should fail")
	}
	if m.Len() != 0 {
		t.Fatalf("failed save left %d objects behind", m.Len())
	}
}

func TestSetDispatchesByScheme(t *testing.T) {
	ctx := context.Background()
	primary := NewMemory()
	set := NewSet(primary)

	loc, err := set.Save(ctx, "x.pdf", strings.NewReader("pdf"), 3)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := set.Get(ctx, loc); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// 未注册的 scheme 与坏定位串都按 ErrBadLocator 处理
	if _, err := set.Get(ctx, "ftp://x.pdf"); !errors.Is(err, ErrBadLocator) {
		t.Fatalf("unknown scheme: err = %v, want ErrBadLocator", err)
	}
	if err := set.Delete(ctx, "pas-un-locator"); !errors.Is(err, ErrBadLocator) {
		t.Fatalf("bad locator: err = %v, want ErrBadLocator", err)
	}

	// 内存后端无外链
	url, err := set.DownloadURL(ctx, loc, time.Minute)
	if err != nil || url != "" {
		t.Fatalf("DownloadURL = (%q, %v), want empty inline marker", url, err)
	}
}

func TestUniqueObjectNames(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a, _ := m.Save(ctx, "même-nom.pdf", strings.NewReader("v1"), 2)
	b, _ := m.Save(ctx, "même-nom.pdf", strings.NewReader("v2"), 2)
	if a == b {
		t.Fatalf("two uploads of the same filename share locator %q", a)
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
}
