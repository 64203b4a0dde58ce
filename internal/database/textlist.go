package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// TextList 是以 JSON 数组存储的字符串列表。
// 历史数据可能是换行或逗号分隔的纯文本，读取时统一转换为列表。
type TextList []string

// Scan implements sql.Scanner. NULL and blank values become an empty list.
func (l *TextList) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*l = TextList{}
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("text list: unsupported scan type %T", value)
	}
	*l = ParseTextList(raw)
	return nil
}

// Value implements driver.Valuer; a nil list is stored as "[]".
func (l TextList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// GormDataType keeps the column as plain text so legacy rows remain readable.
func (TextList) GormDataType() string {
	return "text"
}

func (TextList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return "text"
}

// ParseTextList 解析 JSON 数组；失败时按换行、再按逗号切分。
func ParseTextList(raw string) TextList {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return TextList{}
	}

	if strings.HasPrefix(raw, "[") {
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			return compact(items)
		}
	}

	sep := "\n"
	if !strings.Contains(raw, "\n") {
		sep = ","
	}
	return compact(strings.Split(raw, sep))
}

func compact(items []string) TextList {
	out := make(TextList, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
