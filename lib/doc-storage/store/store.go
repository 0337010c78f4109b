package docdbstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "staff-tools-backend/models/db"
)

type Provider interface {
	SaveAttachment(rec dbmodels.Attachment) (id string, err error)
	GetByID(id string) (*dbmodels.Attachment, error)
	ListByRequest(requestID string) ([]dbmodels.Attachment, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{db: DB}
}

type impl struct {
	db *gorm.DB
}

func (i impl) SaveAttachment(rec dbmodels.Attachment) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Attachment, error) {
	rec := dbmodels.Attachment{}
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

func (i impl) ListByRequest(requestID string) (list []dbmodels.Attachment, err error) {
	err = i.db.
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
