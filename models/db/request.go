package dbmodels

import (
	"staff-tools-backend/models"
)

type Request struct {
	BaseModel
	Kind    models.RequestKind `gorm:"type:varchar(100);index"`
	OwnerID string             `gorm:"type:varchar(36);index"`
	Owner   *StaffUser         `gorm:"foreignKey:OwnerID"`
	Title   string             `gorm:"type:varchar(255)"`
	// organizational scope used for reviewer targeting, optional
	Community   string              `gorm:"type:varchar(255);index"`
	State       models.RequestState `gorm:"type:varchar(100);index"`
	Amount      float64
	Description string
	Attachments []Attachment     `gorm:"foreignKey:RequestID"`
	History     []RequestHistory `gorm:"foreignKey:RequestID"`
}

// Attachment belongs to exactly one request, is created only while the
// request sits in its kind's editable window and is never deleted afterwards.
type Attachment struct {
	BaseModel
	RequestID   string `gorm:"type:varchar(36);index"`
	FileName    string `gorm:"type:varchar(255)"`
	ContentType string `gorm:"type:varchar(255)"`
	// object key inside the blob store
	StoragePath string `gorm:"type:varchar(512)"`
	UploadedBy  string `gorm:"type:varchar(36)"`
}
