package dbmodels

import (
	"staff-tools-backend/models"
	notificationapimodels "staff-tools-backend/models/api/notification"
)

// NotificationSetting is one matrix row keyed by (event code, recipient
// role). Absence of a row means both channels enabled (fail-open), a nil
// flag on an existing row counts as enabled too: only an explicit false
// disables a channel.
type NotificationSetting struct {
	BaseModel
	Code         models.NotifyEventCode `gorm:"type:varchar(255);uniqueIndex:idx_setting_code_role"`
	Role         models.UserRole        `gorm:"type:varchar(100);uniqueIndex:idx_setting_code_role"`
	InAppEnabled *bool
	EmailEnabled *bool
}

func (r NotificationSetting) InAppAllowed() bool {
	return r.InAppEnabled == nil || *r.InAppEnabled
}

func (r NotificationSetting) EmailAllowed() bool {
	return r.EmailEnabled == nil || *r.EmailEnabled
}

func (r NotificationSetting) ToModelView() notificationapimodels.SettingView {
	return notificationapimodels.SettingView{
		Name: models.NotifyCodeMap[r.Code].Name,
		SettingData: notificationapimodels.SettingData{
			Code: r.Code,
			Role: r.Role,
			Value: notificationapimodels.SettingValue{
				InApp: r.InAppEnabled,
				Email: r.EmailEnabled,
			},
		},
	}
}
