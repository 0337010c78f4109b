package notificationdatastore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "staff-tools-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Notification) error
	List(userID string, unreadOnly bool) ([]dbmodels.Notification, error)
	GetByID(id string) (*dbmodels.Notification, error)
	MarkRead(id string) error
	Delete(id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Notification) error {
	return i.db.
		Save(&rec).
		Error
}

func (i impl) List(userID string, unreadOnly bool) (list []dbmodels.Notification, err error) {
	tx := i.db.Model(dbmodels.Notification{}).
		Where("user_id = ?", userID)
	if unreadOnly {
		tx = tx.Where("read = ?", false)
	}
	err = tx.
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) GetByID(id string) (*dbmodels.Notification, error) {
	rec := dbmodels.Notification{}
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

func (i impl) MarkRead(id string) error {
	// the read flip is the only permitted mutation
	return i.db.
		Model(&dbmodels.Notification{}).
		Where("id = ?", id).
		Update("read", true).
		Error
}

func (i impl) Delete(id string) error {
	return i.db.Delete(&dbmodels.Notification{}, "id = ?", id).Error
}
