package notificationsettingshandler

import (
	log "github.com/sirupsen/logrus"

	"staff-tools-backend/db"
	notificationsettingsstore "staff-tools-backend/lib/notification/settings-store"
	"staff-tools-backend/lib/utils/apperrors"
	"staff-tools-backend/models"
	notificationapimodels "staff-tools-backend/models/api/notification"
	dbmodels "staff-tools-backend/models/db"
)

type Provider interface {
	// List returns the full (event, role) matrix. Pairs without a stored row
	// are reported with unset flags, which the dispatcher reads as enabled.
	List() ([]notificationapimodels.SettingView, error)
	Toggle(data notificationapimodels.SettingData) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: notificationsettingsstore.NewInstance(db.DB),
	}
}

type impl struct {
	store notificationsettingsstore.Provider
}

func (i impl) List() ([]notificationapimodels.SettingView, error) {
	stored, err := i.store.List()
	if err != nil {
		log.WithError(err).Error("notification settings list failed")
		return nil, apperrors.Persistence(err, "notification settings list failed")
	}
	byKey := map[models.NotifyEventCode]map[models.UserRole]dbmodels.NotificationSetting{}
	for _, rec := range stored {
		if byKey[rec.Code] == nil {
			byKey[rec.Code] = map[models.UserRole]dbmodels.NotificationSetting{}
		}
		byKey[rec.Code][rec.Role] = rec
	}
	result := make([]notificationapimodels.SettingView, 0, len(models.NotifyCodeMap)*len(models.AllRoles))
	for code := range models.NotifyCodeMap {
		for _, role := range models.AllRoles {
			if rec, exist := byKey[code][role]; exist {
				result = append(result, rec.ToModelView())
				continue
			}
			result = append(result, notificationapimodels.SettingView{
				Name: models.NotifyCodeMap[code].Name,
				SettingData: notificationapimodels.SettingData{
					Code: code,
					Role: role,
				},
			})
		}
	}
	return result, nil
}

func (i impl) Toggle(data notificationapimodels.SettingData) error {
	if err := data.Validate(); err != nil {
		return apperrors.Validation(err)
	}
	rec := dbmodels.NotificationSetting{
		Code:         data.Code,
		Role:         data.Role,
		InAppEnabled: data.Value.InApp,
		EmailEnabled: data.Value.Email,
	}
	if err := i.store.Upsert(rec); err != nil {
		log.WithError(err).
			WithField("event_code", data.Code).
			WithField("role", data.Role).
			Error("notification setting upsert failed")
		return apperrors.Persistence(err, "notification setting upsert failed")
	}
	return nil
}
