package notificationsettingsstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staff-tools-backend/models"
	dbmodels "staff-tools-backend/models/db"
)

type Provider interface {
	Upsert(rec dbmodels.NotificationSetting) error
	List() ([]dbmodels.NotificationSetting, error)
	// GetByCodeAndRole returns nil when no row exists: the matrix is
	// fail-open, an absent row means the channels are enabled.
	GetByCodeAndRole(code models.NotifyEventCode, role models.UserRole) (*dbmodels.NotificationSetting, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Upsert(rec dbmodels.NotificationSetting) error {
	return i.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}, {Name: "role"}},
			DoUpdates: clause.AssignmentColumns([]string{"in_app_enabled", "email_enabled", "updated_at"}),
		}).
		Create(&rec).
		Error
}

func (i impl) List() (list []dbmodels.NotificationSetting, err error) {
	err = i.db.
		Model(dbmodels.NotificationSetting{}).
		Order("code, role").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) GetByCodeAndRole(code models.NotifyEventCode, role models.UserRole) (rec *dbmodels.NotificationSetting, err error) {
	rec = &dbmodels.NotificationSetting{}
	err = i.db.Model(dbmodels.NotificationSetting{}).
		Where("code = ?", code).
		Where("role = ?", role).
		First(rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}
