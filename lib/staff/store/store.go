package staffstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"staff-tools-backend/models"
	dbmodels "staff-tools-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.StaffUser) (id string, err error)
	GetByID(id string) (*dbmodels.StaffUser, error)
	ListByRole(role models.UserRole) ([]dbmodels.StaffUser, error)
	ListReviewersByCommunity(community string) ([]dbmodels.StaffUser, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.StaffUser) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.StaffUser, error) {
	rec := dbmodels.StaffUser{}
	err := i.db.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListByRole(role models.UserRole) (list []dbmodels.StaffUser, err error) {
	err = i.db.
		Where("role = ?", role).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListReviewersByCommunity(community string) (list []dbmodels.StaffUser, err error) {
	tx := i.db.Where("role = ?", models.ReviewerRole)
	if community != "" {
		tx = tx.Where("? = ANY(communities)", community)
	}
	err = tx.
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
