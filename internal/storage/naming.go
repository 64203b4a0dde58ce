package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// URLPrefix is the public path uploads are served under.
	URLPrefix = "/uploads/"
	keyPrefix = "uploads/"
)

// NewUploadName 生成 "<毫秒时间戳>-<8位十六进制><扩展名>" 形式的文件名。
func NewUploadName(now time.Time, ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), suffix, strings.ToLower(ext))
}

// ObjectKey maps an upload name to its bucket key.
func ObjectKey(name string) string {
	return keyPrefix + name
}

// PublicURL maps an upload name to the URL recorded on users and companies.
func PublicURL(name string) string {
	return URLPrefix + name
}

// ValidUploadName 拒绝路径穿越与异常文件名。
func ValidUploadName(name string) bool {
	if name == "" || len(name) > 128 || !utf8.ValidString(name) {
		return false
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return false
	}
	return path.Base(name) == name && !strings.HasPrefix(name, ".")
}
