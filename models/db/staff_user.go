package dbmodels

import (
	"staff-tools-backend/models"

	"github.com/lib/pq"
)

type StaffUser struct {
	BaseModel
	FirstName   string          `gorm:"type:varchar(255)"`
	LastName    string          `gorm:"type:varchar(255)"`
	Email       string          `gorm:"type:varchar(255);index"`
	Role        models.UserRole `gorm:"type:varchar(100);index"`
	// reviewer assignment set, empty for other roles
	Communities pq.StringArray `gorm:"type:text[]"`
	PushEnabled bool            `gorm:"default:true"`
}

func (u StaffUser) GetFullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
