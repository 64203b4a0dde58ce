// Package seed 写入演示数据：账号、公司与香港职位。
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"hkexpatjobs/internal/auth"
	"hkexpatjobs/internal/database"
	"hkexpatjobs/internal/store"
)

// Report 汇总本次写入的数量。
type Report struct {
	UsersCreated     int
	CompaniesSaved   int
	JobsCreated      int
	JobsAlreadyExist int
}

type Loader struct {
	db        *gorm.DB
	users     *store.UserStore
	companies *store.CompanyStore
	jobs      *store.JobStore
	logger    *slog.Logger
	now       func() time.Time
}

func NewLoader(db *gorm.DB, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		db:        db,
		users:     store.NewUserStore(db),
		companies: store.NewCompanyStore(db),
		jobs:      store.NewJobStore(db),
		logger:    logger,
		now:       time.Now,
	}
}

// Reset 清空全部业务表（包括软删除的行）。
func (l *Loader) Reset(ctx context.Context) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session := tx.Unscoped().Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&database.Application{}, &database.JobLanguage{}, &database.Job{}, &database.Company{}, &database.User{}} {
			if err := session.Delete(model).Error; err != nil {
				return fmt.Errorf("reset %T: %w", model, err)
			}
		}
		return nil
	})
}

// Load 按用户名、公司所有者与职位标题去重，重复执行不会产生重复数据。
func (l *Loader) Load(ctx context.Context) (Report, error) {
	var report Report

	ids := make(map[string]uint)
	for _, demo := range demoUsers() {
		id, created, err := l.ensureUser(ctx, demo)
		if err != nil {
			return report, err
		}
		ids[demo.user.Username] = id
		if created {
			report.UsersCreated++
		}
	}

	companyIDs := make(map[string]uint)
	for _, demo := range demoCompanies() {
		template := demo.company
		company, _, err := l.companies.Upsert(ctx, ids[demo.owner], func(c *database.Company) {
			model := c.Model
			*c = template
			c.Model = model
		})
		if err != nil {
			return report, fmt.Errorf("seed company %q: %w", template.Name, err)
		}
		// Upsert 保留已有的 verified，演示数据需要显式置为已认证。
		if !company.Verified {
			if err := l.db.WithContext(ctx).Model(company).Update("verified", true).Error; err != nil {
				return report, fmt.Errorf("verify company %q: %w", company.Name, err)
			}
		}
		companyIDs[company.Name] = company.ID
		report.CompaniesSaved++
	}

	for _, demo := range demoJobs() {
		posterID := ids[demo.poster]
		existing, err := l.jobs.ListByPoster(ctx, posterID)
		if err != nil {
			return report, fmt.Errorf("list jobs for %s: %w", demo.poster, err)
		}
		if hasTitle(existing, demo.job.Title) {
			report.JobsAlreadyExist++
			continue
		}

		job := demo.job
		job.Company = demo.company
		if id, ok := companyIDs[demo.company]; ok {
			job.CompanyID = &id
		}
		job.PostedBy = posterID
		job.PostedAt = l.now().Add(-time.Duration(demo.daysAgo) * 24 * time.Hour)
		if err := l.jobs.Create(ctx, &job); err != nil {
			return report, fmt.Errorf("seed job %q: %w", job.Title, err)
		}
		report.JobsCreated++
	}

	l.logger.Info("seed completed",
		slog.Int("users_created", report.UsersCreated),
		slog.Int("companies_saved", report.CompaniesSaved),
		slog.Int("jobs_created", report.JobsCreated),
		slog.Int("jobs_skipped", report.JobsAlreadyExist),
	)
	return report, nil
}

func (l *Loader) ensureUser(ctx context.Context, demo demoUser) (uint, bool, error) {
	existing, err := l.users.FindByUsername(ctx, demo.user.Username)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, false, fmt.Errorf("lookup %s: %w", demo.user.Username, err)
	}

	hash, err := auth.HashPassword(demo.password)
	if err != nil {
		return 0, false, fmt.Errorf("hash password for %s: %w", demo.user.Username, err)
	}
	user := demo.user
	user.PasswordHash = hash
	if err := l.users.Create(ctx, &user); err != nil {
		return 0, false, fmt.Errorf("create %s: %w", user.Username, err)
	}
	return user.ID, true, nil
}

func hasTitle(jobs []database.Job, title string) bool {
	for _, j := range jobs {
		if j.Title == title {
			return true
		}
	}
	return false
}
