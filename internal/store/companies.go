package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hkexpatjobs/internal/database"
)

// CompanyStore 负责 companies 表的读写，每个招聘者至多一条记录。
type CompanyStore struct {
	db *gorm.DB
}

func NewCompanyStore(db *gorm.DB) *CompanyStore {
	return &CompanyStore{db: db}
}

func (s *CompanyStore) FindByID(ctx context.Context, id uint) (*database.Company, error) {
	var company database.Company
	if err := s.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

// List returns every company ordered by name.
func (s *CompanyStore) List(ctx context.Context) ([]database.Company, error) {
	companies := []database.Company{}
	if err := s.db.WithContext(ctx).Order("name ASC, id ASC").Find(&companies).Error; err != nil {
		return nil, translate(err)
	}
	return companies, nil
}

func (s *CompanyStore) FindByRecruiter(ctx context.Context, recruiterID uint) (*database.Company, error) {
	var company database.Company
	if err := s.db.WithContext(ctx).Where("recruiter_id = ?", recruiterID).First(&company).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

// Upsert 在事务中查找招聘者的公司并应用 mutate；不存在时创建。
// 并发创建撞上唯一索引时重试一次，转为更新。
func (s *CompanyStore) Upsert(ctx context.Context, recruiterID uint, mutate func(*database.Company)) (*database.Company, bool, error) {
	company, created, err := s.upsertOnce(ctx, recruiterID, mutate)
	if errors.Is(err, ErrDuplicate) {
		company, created, err = s.upsertOnce(ctx, recruiterID, mutate)
	}
	return company, created, err
}

func (s *CompanyStore) upsertOnce(ctx context.Context, recruiterID uint, mutate func(*database.Company)) (*database.Company, bool, error) {
	var company database.Company
	created := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("recruiter_id = ?", recruiterID).First(&company).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			company = database.Company{RecruiterID: recruiterID}
			created = true
		default:
			return err
		}

		verified := company.Verified
		mutate(&company)
		company.RecruiterID = recruiterID
		company.Verified = verified

		if created {
			return tx.Create(&company).Error
		}
		return tx.Save(&company).Error
	})
	if err != nil {
		return nil, false, translate(err)
	}
	return &company, created, nil
}

// SetLogo records the logo URL on the recruiter's company.
func (s *CompanyStore) SetLogo(ctx context.Context, recruiterID uint, url string) (*database.Company, error) {
	company, err := s.FindByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(company).Update("logo", url).Error; err != nil {
		return nil, translate(err)
	}
	company.Logo = url
	return company, nil
}
