package api

import (
	"bytes"
	"net/http"
	"strings"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestUploadPhoto_StoresAndServes(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice", "pw1234", "applicant")

	w := s.upload(t, "/api/upload/photo", token, "photo", "me.png", pngHeader)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload photo: status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		URL string `json:"url"`
	}
	decode(t, w, &resp)
	if !strings.HasPrefix(resp.URL, "/uploads/") || !strings.HasSuffix(resp.URL, ".png") {
		t.Fatalf("unexpected url %q", resp.URL)
	}
	if _, ok := s.storage.uploaded[strings.TrimPrefix(resp.URL, "/")]; !ok {
		t.Fatalf("object not stored under uploads/: %v", s.storage.uploaded)
	}

	served := s.do(t, http.MethodGet, resp.URL, "", nil)
	if served.Code != http.StatusOK || !bytes.Equal(served.Body.Bytes(), pngHeader) {
		t.Fatalf("serve upload: status %d", served.Code)
	}
	if ct := served.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type %q", ct)
	}

	var profile struct {
		Profile struct {
			Photo string `json:"photo"`
		} `json:"profile"`
	}
	decode(t, s.do(t, http.MethodGet, "/api/profile", token, nil), &profile)
	if profile.Profile.Photo != resp.URL {
		t.Fatalf("photo not recorded on profile: %q", profile.Profile.Photo)
	}
}

func TestUpload_Rejections(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "alice", "pw1234", "applicant")
	recruiter := s.register(t, "rita", "recruit1", "recruiter")

	if w := s.upload(t, "/api/upload/photo", "", "photo", "me.png", pngHeader); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous upload: status %d", w.Code)
	}
	if w := s.upload(t, "/api/upload/photo", token, "file", "me.png", pngHeader); w.Code != http.StatusBadRequest {
		t.Fatalf("wrong field: status %d", w.Code)
	}
	if w := s.upload(t, "/api/upload/resume", token, "resume", "cv.pdf", []byte("plain text pretending to be a pdf")); w.Code != http.StatusBadRequest {
		t.Fatalf("sniffed type mismatch: status %d", w.Code)
	}
	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2<<20)...)
	if w := s.upload(t, "/api/upload/photo", token, "photo", "big.png", big); w.Code != http.StatusBadRequest {
		t.Fatalf("oversized upload: status %d", w.Code)
	}
	if w := s.upload(t, "/api/companies/logo", recruiter, "logo", "logo.png", pngHeader); w.Code != http.StatusNotFound {
		t.Fatalf("logo without company: status %d", w.Code)
	}
	if w := s.upload(t, "/api/companies/logo", token, "logo", "logo.png", pngHeader); w.Code != http.StatusForbidden {
		t.Fatalf("applicant logo upload: status %d", w.Code)
	}
	if len(s.storage.uploaded) != 0 {
		t.Fatalf("rejected uploads must not be stored: %v", s.storage.uploaded)
	}

	if w := s.do(t, http.MethodGet, "/uploads/1700000000000-deadbeef.png", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing upload: status %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/uploads/..secret", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("invalid name: status %d", w.Code)
	}
}

func TestUploadLogo(t *testing.T) {
	s := newTestServer(t)
	recruiter := s.register(t, "rita", "recruit1", "recruiter")
	if w := s.do(t, http.MethodPost, "/api/companies", recruiter, map[string]string{"name": "Harbour"}); w.Code != http.StatusCreated {
		t.Fatalf("create company: status %d", w.Code)
	}

	w := s.upload(t, "/api/companies/logo", recruiter, "logo", "logo.png", pngHeader)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload logo: status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		URL     string `json:"url"`
		Company struct {
			Logo string `json:"logo"`
		} `json:"company"`
	}
	decode(t, w, &resp)
	if resp.URL == "" || resp.Company.Logo != resp.URL {
		t.Fatalf("logo not recorded: %+v", resp)
	}
}
