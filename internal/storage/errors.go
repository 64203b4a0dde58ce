package storage

import (
	"errors"
	"net/http"

	"github.com/minio/minio-go/v7"
)

// ErrNotFound 表示对象不存在，测试用的内存实现也返回它。
var ErrNotFound = errors.New("object not found")

// IsNoSuchKey reports whether err means the object is missing.
func IsNoSuchKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
