package blog

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello, World!  Foo_Bar", "hello-world-foo-bar"},
		{"Already-Slugged Title", "already-slugged-title"},
		{"  --Trim Me--  ", "trim-me"},
		{"çok özel karakterler!!!", "çok-özel-karakterler"},
		{"Ünlü Başlık: 2024", "ünlü-başlık-2024"},
		{"", ""},
		{"???", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.title); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	slug := Slugify("Some Catchy Title")
	if again := Slugify(slug); again != slug {
		t.Errorf("Slugify not idempotent: %q -> %q", slug, again)
	}
}

func TestUniqueSlugNoCollision(t *testing.T) {
	got := UniqueSlug("x", func(string) bool { return false })
	if got != "x" {
		t.Errorf("UniqueSlug without collision = %q, want %q", got, "x")
	}
}

func TestUniqueSlugCollision(t *testing.T) {
	got := UniqueSlug("x", func(s string) bool { return s == "x" })
	if got == "x" || !strings.HasPrefix(got, "x-") {
		t.Fatalf("UniqueSlug with collision = %q, want x-<digits>", got)
	}
	suffix := strings.TrimPrefix(got, "x-")
	if suffix == "" {
		t.Fatalf("no suffix in %q", got)
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			t.Fatalf("suffix %q is not digits", suffix)
		}
	}
}
