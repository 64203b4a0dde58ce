package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"hkexpatjobs/internal/api/middleware"
	"hkexpatjobs/internal/auth"
	"hkexpatjobs/internal/companies"
	"hkexpatjobs/internal/metrics"
	"hkexpatjobs/internal/storage"
	"hkexpatjobs/internal/users"
)

// ObjectStorage 是上传处理所需的对象存储能力，*storage.Client 实现该接口。
type ObjectStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	OpenObject(ctx context.Context, objectName string) (*storage.Object, error)
	DeleteObject(ctx context.Context, objectName string) error
}

type uploadKind struct {
	name    string
	field   string
	allowed []string
}

var (
	resumeUpload = uploadKind{
		name:  "resume",
		field: "resume",
		allowed: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
	}
	photoUpload = uploadKind{name: "photo", field: "photo", allowed: imageTypes}
	logoUpload  = uploadKind{name: "logo", field: "logo", allowed: imageTypes}

	imageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}
)

var errMaliciousFile = errors.New("malicious file detected")

// UploadHandler 负责简历、头像与公司 Logo 的上传，以及 /uploads/:name 的读取。
type UploadHandler struct {
	Storage   ObjectStorage
	Users     *users.Service
	Companies *companies.Service
	ClamdAddr string
	MaxBytes  int64
	now       func() time.Time
}

func NewUploadHandler(storageClient ObjectStorage, userService *users.Service, companyService *companies.Service, clamdAddr string, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		Storage:   storageClient,
		Users:     userService,
		Companies: companyService,
		ClamdAddr: clamdAddr,
		MaxBytes:  maxBytes,
		now:       time.Now,
	}
}

func (h *UploadHandler) UploadResume(c *gin.Context) {
	h.handle(c, resumeUpload, func(ctx context.Context, id auth.Identity, url string) (any, error) {
		return nil, h.Users.SetResume(ctx, id.ID, url)
	})
}

func (h *UploadHandler) UploadPhoto(c *gin.Context) {
	h.handle(c, photoUpload, func(ctx context.Context, id auth.Identity, url string) (any, error) {
		return nil, h.Users.SetPhoto(ctx, id.ID, url)
	})
}

// UploadLogo 要求调用者已经创建公司，否则返回 404 且不写入存储。
func (h *UploadHandler) UploadLogo(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	exists, err := h.Companies.HasCompany(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		NotFound(c, "company not found")
		return
	}

	h.handle(c, logoUpload, func(ctx context.Context, id auth.Identity, url string) (any, error) {
		return h.Companies.SetLogo(ctx, id, url)
	})
}

type recordFunc func(ctx context.Context, id auth.Identity, url string) (any, error)

func (h *UploadHandler) handle(c *gin.Context, kind uploadKind, record recordFunc) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	logger := middleware.LoggerFromContext(c).With(slog.String("upload", kind.name))

	// 预留 multipart 边界等开销。
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes+1<<20)
	file, err := c.FormFile(kind.field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			BadRequest(c, "file too large")
			return
		}
		BadRequest(c, "missing file field "+kind.field)
		return
	}
	if file.Size > h.MaxBytes {
		BadRequest(c, "file too large")
		return
	}

	mtype, err := sniff(file)
	if err != nil {
		respondError(c, err)
		return
	}
	if !mimetype.EqualsAny(mtype.String(), kind.allowed...) {
		BadRequest(c, "unsupported file type "+mtype.String())
		return
	}

	if err := h.scan(file); err != nil {
		if errors.Is(err, errMaliciousFile) {
			logger.Warn("upload rejected by antivirus", slog.Uint64("user_id", uint64(identity.ID)))
			BadRequest(c, err.Error())
			return
		}
		logger.Error("scan file", slog.Any("error", err))
		Message(c, http.StatusInternalServerError, "failed to scan file")
		return
	}

	reader, err := file.Open()
	if err != nil {
		Message(c, http.StatusInternalServerError, "failed to read file")
		return
	}
	defer reader.Close()

	ctx := c.Request.Context()
	name := storage.NewUploadName(h.now(), mtype.Extension())
	key := storage.ObjectKey(name)
	if err := h.Storage.UploadFile(ctx, key, reader, file.Size, mtype.String()); err != nil {
		logger.Error("upload file", slog.Any("error", err))
		Message(c, http.StatusInternalServerError, "failed to store file")
		return
	}

	url := storage.PublicURL(name)
	extra, err := record(ctx, identity, url)
	if err != nil {
		if delErr := h.Storage.DeleteObject(context.WithoutCancel(ctx), key); delErr != nil {
			logger.Warn("cleanup orphan upload", slog.String("key", key), slog.Any("error", delErr))
		}
		respondError(c, err)
		return
	}

	metrics.ObserveUpload(kind.name)
	logger.Info("file uploaded", slog.String("key", key), slog.Uint64("user_id", uint64(identity.ID)))

	body := gin.H{"success": true, "url": url}
	if extra != nil {
		body["company"] = extra
	}
	c.JSON(http.StatusCreated, body)
}

func sniff(file *multipart.FileHeader) (*mimetype.MIME, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return mimetype.DetectReader(reader)
}

// scan 在配置了 clamd 地址时扫描文件。
func (h *UploadHandler) scan(file *multipart.FileHeader) error {
	if h.ClamdAddr == "" {
		return nil
	}
	reader, err := file.Open()
	if err != nil {
		return err
	}
	defer reader.Close()

	abortChan := make(chan bool)
	defer close(abortChan)
	results, err := clamd.NewClamd(h.ClamdAddr).ScanStream(reader, abortChan)
	if err != nil {
		return err
	}
	for result := range results {
		if result.Status != clamd.RES_OK {
			return errMaliciousFile
		}
	}
	return nil
}

// Serve 流式返回已上传的文件。
func (h *UploadHandler) Serve(c *gin.Context) {
	name := c.Param("name")
	if !storage.ValidUploadName(name) {
		NotFound(c, "file not found")
		return
	}

	obj, err := h.Storage.OpenObject(c.Request.Context(), storage.ObjectKey(name))
	if err != nil {
		if storage.IsNoSuchKey(err) {
			NotFound(c, "file not found")
			return
		}
		middleware.LoggerFromContext(c).Error("open upload", slog.String("name", name), slog.Any("error", err))
		Message(c, http.StatusInternalServerError, "failed to read file")
		return
	}
	defer obj.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, obj.Size, contentType, obj, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}
