package requeststore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staff-tools-backend/models"
	requestapimodels "staff-tools-backend/models/api/request"
	dbmodels "staff-tools-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Request) (id string, err error)
	GetByID(id string) (rec *dbmodels.Request, err error)
	// UpdateState is the compare-and-swap of the critical section: the row is
	// advanced only when it still sits in fromState. moved=false means the
	// state had already changed under us.
	UpdateState(id string, fromState, toState models.RequestState) (moved bool, err error)
	List(filter requestapimodels.RequestFilter, ownership Ownership) (list []dbmodels.Request, err error)
	ListCount(filter requestapimodels.RequestFilter, ownership Ownership) (rowCount int64, err error)
	// ListAll feeds the register export, no pagination applied.
	ListAll() (list []dbmodels.Request, err error)
}

// Ownership narrows listing to what the actor may see: owners see their own
// rows, reviewers their communities, amministrazione everything.
type Ownership struct {
	OwnerID     string
	Communities []string
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Request) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Request, error) {
	rec := dbmodels.Request{}
	err := i.db.
		Where("id = ?", id).
		Preload("Owner").
		Preload("Attachments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("History", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
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

func (i impl) UpdateState(id string, fromState, toState models.RequestState) (moved bool, err error) {
	tx := i.db.
		Model(&dbmodels.Request{}).
		Where("id = ?", id).
		Where("state = ?", fromState).
		Updates(map[string]interface{}{
			"state":      toState,
			"updated_at": time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) applyFilter(tx *gorm.DB, filter requestapimodels.RequestFilter, ownership Ownership) *gorm.DB {
	if filter.Kind != "" {
		tx = tx.Where("kind = ?", filter.Kind)
	}
	if filter.State != "" {
		tx = tx.Where("state = ?", filter.State)
	}
	if ownership.OwnerID != "" {
		tx = tx.Where("owner_id = ?", ownership.OwnerID)
	}
	if ownership.Communities != nil {
		// reviewers see their communities plus tickets, which are unscoped
		tx = tx.Where("community IN ? OR kind = ?", ownership.Communities, models.KindTicket)
	}
	return tx
}

func (i impl) List(filter requestapimodels.RequestFilter, ownership Ownership) (list []dbmodels.Request, err error) {
	page, limit := filter.GetPage()
	tx := i.applyFilter(i.db.Model(&dbmodels.Request{}), filter, ownership)
	err = tx.
		Preload("Owner").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) ListAll() (list []dbmodels.Request, err error) {
	err = i.db.
		Model(&dbmodels.Request{}).
		Preload("Owner").
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(filter requestapimodels.RequestFilter, ownership Ownership) (rowCount int64, err error) {
	tx := i.applyFilter(i.db.Model(&dbmodels.Request{}), filter, ownership)
	err = tx.Count(&rowCount).Error
	if err != nil {
		return 0, err
	}
	return rowCount, nil
}
