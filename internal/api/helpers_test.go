package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hkexpatjobs/internal/auth"
	"hkexpatjobs/internal/config"
	"hkexpatjobs/internal/database/dbtest"
	"hkexpatjobs/internal/storage"
)

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
)

func signingKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	keyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKey = key
	})
	return testKey
}

type fakeStorage struct {
	mu       sync.Mutex
	uploaded map[string][]byte
	types    map[string]string
	deleted  []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStorage) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, contentType string) error {
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded[objectName] = b
	s.types[objectName] = contentType
	return nil
}

func (s *fakeStorage) OpenObject(_ context.Context, objectName string) (*storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.uploaded[objectName]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.Object{
		ReadCloser:  io.NopCloser(bytes.NewReader(b)),
		Size:        int64(len(b)),
		ContentType: s.types[objectName],
	}, nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, objectName)
	delete(s.uploaded, objectName)
	return nil
}

type testServer struct {
	router  *gin.Engine
	storage *fakeStorage
	deps    Dependencies
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key := signingKey(t)
	tokens := auth.NewAuthServiceWithKeys(key, &key.PublicKey, time.Hour)

	deps := NewDependencies(dbtest.Open(t), tokens, []string{auth.RoleApplicant, auth.RoleRecruiter, auth.RoleAdmin})
	fs := newFakeStorage()
	deps.Storage = fs
	deps.MaxUploadBytes = 1 << 20

	return &testServer{router: NewRouter(testConfig(), discardLogger(), deps), storage: fs, deps: deps}
}

func testConfig() *config.Config {
	return &config.Config{API: config.APIConfig{
		RequestTimeout: 5 * time.Second,
		CORSOrigins:    []string{"*"},
	}}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(t *testing.T, path, token, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := newMultipartUpload(t, field, filename, content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register 注册并登录，返回 token。
func (s *testServer) register(t *testing.T, username, password, role string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"password": password,
		"role":     role,
		"name":     username + " name",
		"email":    username + "@example.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}
	return s.login(t, username, password)
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": username, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	if resp.Token == "" {
		t.Fatal("login returned empty token")
	}
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	decode(t, w, &resp)
	return resp.Message
}

func newMultipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}
