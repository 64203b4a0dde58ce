package jobs

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"hkexpatjobs/internal/errcode"
	"hkexpatjobs/internal/store"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// SearchLimit caps the keyword search endpoint.
	SearchLimit = 20
)

// ListQuery 是 GET /api/jobs 解析后的查询参数。
type ListQuery struct {
	Page   int
	Limit  int
	Filter store.JobFilter
}

// ParseListQuery 解析列表查询参数。page/limit 非法时回退默认值，薪资参数非数字返回 Validation。
func ParseListQuery(values url.Values) (ListQuery, error) {
	q := ListQuery{
		Page:  positiveOr(values.Get("page"), DefaultPage),
		Limit: positiveOr(values.Get("limit"), DefaultLimit),
	}

	// 小数下限向上取整、上限向下取整，避免放宽过滤条件。
	minSalary, err := optionalSalary(values.Get("minSalary"), "minSalary", math.Ceil)
	if err != nil {
		return ListQuery{}, err
	}
	maxSalary, err := optionalSalary(values.Get("maxSalary"), "maxSalary", math.Floor)
	if err != nil {
		return ListQuery{}, err
	}

	search := strings.TrimSpace(values.Get("search"))
	if search == "" {
		search = strings.TrimSpace(values.Get("q"))
	}

	q.Filter = store.JobFilter{
		Location:               strings.TrimSpace(values.Get("location")),
		Type:                   strings.TrimSpace(values.Get("type")),
		Industry:               strings.TrimSpace(values.Get("industry")),
		Language:               strings.TrimSpace(values.Get("language")),
		Search:                 search,
		MinSalary:              minSalary,
		MaxSalary:              maxSalary,
		SuitableForExpats:      flag(values.Get("suitableForExpats")),
		VisaSponsorshipOffered: flag(values.Get("visaSponsorshipOffered")),
	}
	return q, nil
}

func positiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func optionalSalary(raw, name string, round func(float64) float64) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil, errcode.Validation(name + " must be a number")
	}
	n := int(round(f))
	return &n, nil
}

func flag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		return true
	}
	return false
}

// totalPages returns ceil(total / limit).
func totalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
