package store

import (
	"context"

	"gorm.io/gorm"

	"hkexpatjobs/internal/database"
)

// ApplicationStore 负责 applications 表；(applicant_id, job_id) 由唯一索引保证不重复。
type ApplicationStore struct {
	db *gorm.DB
}

func NewApplicationStore(db *gorm.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

// Create inserts app unless the applicant already applied to the job (ErrDuplicate).
func (s *ApplicationStore) Create(ctx context.Context, app *database.Application) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&database.Application{}).
			Where("applicant_id = ? AND job_id = ?", app.ApplicantID, app.JobID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicate
		}
		return tx.Create(app).Error
	})
	return translate(err)
}

func (s *ApplicationStore) FindByID(ctx context.Context, id uint) (*database.Application, error) {
	var app database.Application
	if err := s.db.WithContext(ctx).First(&app, id).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (s *ApplicationStore) FindByApplicantAndJob(ctx context.Context, applicantID, jobID uint) (*database.Application, error) {
	var app database.Application
	err := s.db.WithContext(ctx).
		Where("applicant_id = ? AND job_id = ?", applicantID, jobID).
		First(&app).Error
	if err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

// ListByApplicant returns the applicant's applications, newest first.
func (s *ApplicationStore) ListByApplicant(ctx context.Context, applicantID uint) ([]database.Application, error) {
	apps := []database.Application{}
	err := s.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("applied_at DESC, id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, translate(err)
	}
	return apps, nil
}

// ListByJobs returns applications for any of jobIDs, newest first.
func (s *ApplicationStore) ListByJobs(ctx context.Context, jobIDs []uint) ([]database.Application, error) {
	apps := []database.Application{}
	if len(jobIDs) == 0 {
		return apps, nil
	}
	err := s.db.WithContext(ctx).
		Where("job_id IN ?", jobIDs).
		Order("applied_at DESC, id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, translate(err)
	}
	return apps, nil
}

// UpdateStatus writes status on a single application row.
func (s *ApplicationStore) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := s.db.WithContext(ctx).Model(&database.Application{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppliedJobIDs returns the job ids the applicant has applied to.
func (s *ApplicationStore) AppliedJobIDs(ctx context.Context, applicantID uint) ([]uint, error) {
	ids := []uint{}
	err := s.db.WithContext(ctx).
		Model(&database.Application{}).
		Where("applicant_id = ?", applicantID).
		Order("applied_at DESC, id DESC").
		Pluck("job_id", &ids).Error
	if err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

type jobCount struct {
	JobID uint
	Total int64
}

// CountByJobs returns the number of applications per job id.
func (s *ApplicationStore) CountByJobs(ctx context.Context, jobIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(jobIDs))
	if len(jobIDs) == 0 {
		return counts, nil
	}

	var rows []jobCount
	err := s.db.WithContext(ctx).
		Model(&database.Application{}).
		Select("job_id, COUNT(*) AS total").
		Where("job_id IN ?", jobIDs).
		Group("job_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, r := range rows {
		counts[r.JobID] = r.Total
	}
	return counts, nil
}
