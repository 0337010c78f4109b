package notificationapimodels

import (
	"time"

	"github.com/pkg/errors"

	"staff-tools-backend/models"
)

type NotificationView struct {
	ID        string                 `json:"id"`
	Code      models.NotifyEventCode `json:"code"`
	RequestID string                 `json:"request_id,omitempty"`
	Title     string                 `json:"title"`
	Msg       string                 `json:"msg"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"created_at"`
}

type SettingValue struct {
	InApp *bool `json:"inapp,omitempty"` // in-app channel (enabled when unset)
	Email *bool `json:"email,omitempty"` // email channel (enabled when unset)
}

type SettingData struct {
	Code  models.NotifyEventCode `json:"code"`
	Role  models.UserRole        `json:"role"`
	Value SettingValue           `json:"value"`
}

func (r SettingData) Validate() error {
	if _, known := models.KnownNotifyEvent(string(r.Code)); !known {
		return errors.Errorf("unknown event code: %v", r.Code)
	}
	if _, known := models.KnownRole(string(r.Role)); !known {
		return errors.Errorf("unknown role: %v", r.Role)
	}
	return nil
}

type SettingView struct {
	SettingData
	Name string `json:"name"` // event display name
}
