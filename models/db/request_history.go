package dbmodels

import (
	"staff-tools-backend/models"
)

// RequestHistory is append-only. Rows are never updated or deleted, the
// ordered new_state sequence of a request is a walk of its kind's graph.
type RequestHistory struct {
	BaseModel
	RequestID string `gorm:"type:varchar(36);index"`
	// nil on the creation entry
	PreviousState *models.RequestState `gorm:"type:varchar(100)"`
	NewState      models.RequestState  `gorm:"type:varchar(100)"`
	ActorRole     models.UserRole      `gorm:"type:varchar(100)"`
	ActorID       *string              `gorm:"type:varchar(36)"`
	ActorName     string               `gorm:"type:varchar(255)"`
	Note          *string
}
