package dbmodels

import (
	"staff-tools-backend/models"
	notificationapimodels "staff-tools-backend/models/api/notification"
)

type Notification struct {
	BaseModel
	UserID    string                 `gorm:"type:varchar(36);index:idx_notification_user"`
	Code      models.NotifyEventCode `gorm:"type:varchar(255);index:idx_notification_code"`
	RequestID string                 `gorm:"type:varchar(36)"`
	Title     string                 `gorm:"type:varchar(255)"`
	Msg       string
	Read      bool `gorm:"default:false"`
}

func (n Notification) ToModelView() notificationapimodels.NotificationView {
	return notificationapimodels.NotificationView{
		ID:        n.ID,
		Code:      n.Code,
		RequestID: n.RequestID,
		Title:     n.Title,
		Msg:       n.Msg,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
