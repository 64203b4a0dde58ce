package store

import (
	"context"
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hkexpatjobs/internal/database"
)

// JobFilter 描述列表查询的过滤条件，零值表示不过滤。
type JobFilter struct {
	Location               string
	Type                   string
	Industry               string
	Language               string
	Search                 string
	MinSalary              *int
	MaxSalary              *int
	SuitableForExpats      bool
	VisaSponsorshipOffered bool
}

const newestFirst = "jobs.posted_at DESC, jobs.featured_job DESC, jobs.id DESC"

const searchDocument = "to_tsvector('simple', coalesce(jobs.title, '') || ' ' || coalesce(jobs.company, '') || ' ' || coalesce(jobs.industry, '') || ' ' || coalesce(jobs.description, ''))"

func (f JobFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Location != "" {
		db = db.Where("LOWER(jobs.location) LIKE ? ESCAPE '!'", containsPattern(f.Location))
	}
	if f.Type != "" {
		db = db.Where("jobs.type = ?", f.Type)
	}
	if f.Industry != "" {
		db = db.Where("jobs.industry = ?", f.Industry)
	}
	if f.MinSalary != nil {
		db = db.Where("jobs.salary_min >= ?", *f.MinSalary)
	}
	if f.MaxSalary != nil {
		db = db.Where("jobs.salary_max <= ?", *f.MaxSalary)
	}
	if f.SuitableForExpats {
		db = db.Where("jobs.suitable_for_expats = ?", true)
	}
	if f.VisaSponsorshipOffered {
		db = db.Where("jobs.visa_sponsorship_offered = ?", true)
	}
	if lang := strings.TrimSpace(f.Language); lang != "" {
		db = db.Where("EXISTS (SELECT 1 FROM job_languages jl WHERE jl.job_id = jobs.id AND LOWER(jl.language) = ?)", strings.ToLower(lang))
	}
	if f.Search != "" {
		p := containsPattern(f.Search)
		db = db.Where("(LOWER(jobs.title) LIKE ? ESCAPE '!' OR LOWER(jobs.company) LIKE ? ESCAPE '!' OR LOWER(jobs.industry) LIKE ? ESCAPE '!' OR LOWER(jobs.description) LIKE ? ESCAPE '!')", p, p, p, p)
	}
	return db
}

// JobStore 负责 jobs 及 job_languages 表的读写。
type JobStore struct {
	db *gorm.DB
}

func NewJobStore(db *gorm.DB) *JobStore {
	return &JobStore{db: db}
}

// List returns one page of jobs matching filter plus the total match count.
func (s *JobStore) List(ctx context.Context, filter JobFilter, page, limit int) ([]database.Job, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&database.Job{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	jobs := []database.Job{}
	if page < 1 || limit < 1 || page > math.MaxInt32/limit {
		return jobs, total, nil
	}
	offset := (page - 1) * limit
	if int64(offset) >= total {
		return jobs, total, nil
	}

	err := s.db.WithContext(ctx).
		Scopes(filter.scope).
		Preload("Languages").
		Order(newestFirst).
		Limit(limit).
		Offset(offset).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return jobs, total, nil
}

// SearchRanked 使用 PostgreSQL 全文检索按相关度排序，其他方言返回 ErrRankingUnsupported。
func (s *JobStore) SearchRanked(ctx context.Context, query string, limit int) ([]database.Job, error) {
	if !database.IsPostgres(s.db) {
		return nil, ErrRankingUnsupported
	}

	jobs := []database.Job{}
	err := s.db.WithContext(ctx).
		Preload("Languages").
		Where(searchDocument+" @@ plainto_tsquery('simple', ?)", query).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "ts_rank(" + searchDocument + ", plainto_tsquery('simple', ?)) DESC, jobs.posted_at DESC",
			Vars:               []any{query},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, translate(err)
	}
	return jobs, nil
}

// SearchSubstring matches query against title, company, industry and description, newest first.
func (s *JobStore) SearchSubstring(ctx context.Context, query string, limit int) ([]database.Job, error) {
	jobs := []database.Job{}
	err := s.db.WithContext(ctx).
		Scopes(JobFilter{Search: query}.scope).
		Preload("Languages").
		Order(newestFirst).
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, translate(err)
	}
	return jobs, nil
}

func (s *JobStore) FindByID(ctx context.Context, id uint) (*database.Job, error) {
	var job database.Job
	if err := s.db.WithContext(ctx).Preload("Languages").First(&job, id).Error; err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

// ListByPoster returns jobs posted by userID, newest first.
func (s *JobStore) ListByPoster(ctx context.Context, userID uint) ([]database.Job, error) {
	jobs := []database.Job{}
	err := s.db.WithContext(ctx).
		Preload("Languages").
		Where("posted_by = ?", userID).
		Order(newestFirst).
		Find(&jobs).Error
	if err != nil {
		return nil, translate(err)
	}
	return jobs, nil
}

// IDsByPoster returns the ids of jobs posted by userID.
func (s *JobStore) IDsByPoster(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&database.Job{}).Where("posted_by = ?", userID).Pluck("id", &ids).Error; err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

// Create inserts job together with its language rows.
func (s *JobStore) Create(ctx context.Context, job *database.Job) error {
	return translate(s.db.WithContext(ctx).Create(job).Error)
}

// Update 保存职位；replaceLanguages 为 true 时整体替换语言子表，同一事务内完成。
func (s *JobStore) Update(ctx context.Context, job *database.Job, replaceLanguages bool) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(job).Error; err != nil {
			return err
		}
		if !replaceLanguages {
			return nil
		}
		if err := tx.Where("job_id = ?", job.ID).Delete(&database.JobLanguage{}).Error; err != nil {
			return err
		}
		for i := range job.Languages {
			job.Languages[i].ID = 0
			job.Languages[i].JobID = job.ID
		}
		if len(job.Languages) == 0 {
			return nil
		}
		return tx.Create(&job.Languages).Error
	})
	return translate(err)
}

// Delete 软删除职位并移除其语言行；申请记录保留。
func (s *JobStore) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&database.Job{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("job_id = ?", id).Delete(&database.JobLanguage{}).Error
	})
	return translate(err)
}
