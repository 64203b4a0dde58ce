package storage

import (
	"regexp"
	"testing"
	"time"
)

func TestNewUploadName(t *testing.T) {
	now := time.UnixMilli(1714550400123)
	name := NewUploadName(now, ".PDF")

	if !regexp.MustCompile(`^1714550400123-[0-9a-f]{8}\.pdf$`).MatchString(name) {
		t.Fatalf("unexpected upload name %q", name)
	}
	if ObjectKey(name) != "uploads/"+name || PublicURL(name) != "/uploads/"+name {
		t.Fatalf("unexpected key/url for %q", name)
	}
	if !ValidUploadName(name) {
		t.Fatalf("generated name %q should be valid", name)
	}
}

func TestValidUploadName(t *testing.T) {
	for _, bad := range []string{"", "../secret", "a/b.png", `a\b.png`, ".env", "..", "x..y"} {
		if ValidUploadName(bad) {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestIsNoSuchKey(t *testing.T) {
	if !IsNoSuchKey(ErrNotFound) {
		t.Fatal("ErrNotFound should count as missing")
	}
	if IsNoSuchKey(nil) {
		t.Fatal("nil is not a missing-key error")
	}
}
