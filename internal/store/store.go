// Package store 提供基于 GORM 的仓储实现，将驱动错误归一为 ErrNotFound / ErrDuplicate。
package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrRankingUnsupported is returned by ranked search on dialects without full-text ranking.
	ErrRankingUnsupported = errors.New("ranked search unsupported by dialect")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrDuplicate
	default:
		return err
	}
}

// isUniqueViolation 兜底识别未被方言翻译的唯一约束错误。
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a lowercase LIKE pattern; use with ESCAPE '!'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
