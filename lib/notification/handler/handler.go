package notificationhandler

import (
	log "github.com/sirupsen/logrus"

	"staff-tools-backend/config"
	"staff-tools-backend/db"
	notificationdatastore "staff-tools-backend/lib/notification/data-store"
	notificationsettingsstore "staff-tools-backend/lib/notification/settings-store"
	"staff-tools-backend/lib/smtp"
	staffstore "staff-tools-backend/lib/staff/store"
	"staff-tools-backend/lib/utils/apperrors"
	connectionhub "staff-tools-backend/lib/ws/hub/connection-hub"
	"staff-tools-backend/models"
	notificationapimodels "staff-tools-backend/models/api/notification"
	dbmodels "staff-tools-backend/models/db"
	wsmodels "staff-tools-backend/models/ws"
)

type Provider interface {
	// Dispatch fans a committed transition out to every interested
	// (user, role) pair. It never returns an error: delivery failures are
	// logged and swallowed per recipient and can never affect the already
	// committed transition.
	Dispatch(data models.NotificationData, request dbmodels.Request, actor models.Actor)
	ListForUser(userID string) ([]notificationapimodels.NotificationView, error)
	MarkRead(actor models.Actor, id string) error
	Dismiss(actor models.Actor, id string) error
}

var Instance Provider

type livePusher interface {
	SendMessage(msg wsmodels.ServerMessage)
	IsConnected(userID string) bool
}

func NewHandler() {
	Instance = impl{
		staffStore:    staffstore.NewInstance(db.DB),
		settingsStore: notificationsettingsstore.NewInstance(db.DB),
		dataStore:     notificationdatastore.NewInstance(db.DB),
		emailSender:   smtp.Instance,
		hub:           connectionhub.Instance,
		emailFrom:     config.Conf.Smtp.From,
	}
}

type impl struct {
	staffStore    staffstore.Provider
	settingsStore notificationsettingsstore.Provider
	dataStore     notificationdatastore.Provider
	emailSender   smtp.Provider
	hub           livePusher
	emailFrom     string
}

type recipient struct {
	userID string
	role   models.UserRole
	email  string
	// per-user opt-out of the live websocket push, the stored row is
	// written regardless
	pushEnabled bool
}

func (i impl) Dispatch(data models.NotificationData, request dbmodels.Request, actor models.Actor) {
	logger := log.
		WithField("request_id", request.ID).
		WithField("event_code", data.Code)
	recipients, err := i.resolveRecipients(data.Code, request)
	if err != nil {
		logger.WithError(err).Error("recipient resolution failed")
		return
	}
	for _, rcp := range recipients {
		// the acting user already knows, skip self-notification
		if rcp.userID == actor.UserID {
			continue
		}
		i.deliver(data, request, rcp)
	}
}

// resolveRecipients is event specific: submission targets the reviewers of
// the request community, pre-approval the whole admin role, everything else
// the request owner.
func (i impl) resolveRecipients(code models.NotifyEventCode, request dbmodels.Request) ([]recipient, error) {
	switch code {
	case models.NotifyRequestSubmitted:
		reviewers, err := i.staffStore.ListReviewersByCommunity(request.Community)
		if err != nil {
			return nil, err
		}
		return toRecipients(reviewers), nil
	case models.NotifyRequestPreApproved:
		admins, err := i.staffStore.ListByRole(models.AdminRole)
		if err != nil {
			return nil, err
		}
		return toRecipients(admins), nil
	default:
		owner, err := i.staffStore.GetByID(request.OwnerID)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, nil
		}
		return toRecipients([]dbmodels.StaffUser{*owner}), nil
	}
}

func toRecipients(users []dbmodels.StaffUser) []recipient {
	list := make([]recipient, 0, len(users))
	for _, user := range users {
		list = append(list, recipient{
			userID:      user.ID,
			role:        user.Role,
			email:       user.Email,
			pushEnabled: user.PushEnabled,
		})
	}
	return list
}

func (i impl) deliver(data models.NotificationData, request dbmodels.Request, rcp recipient) {
	logger := log.
		WithField("user_id", rcp.userID).
		WithField("event_code", data.Code)
	setting, err := i.settingsStore.GetByCodeAndRole(data.Code, rcp.role)
	if err != nil {
		logger.WithError(err).Error("notification setting lookup failed")
		// fail-open: an unreadable matrix must not suppress delivery
		setting = nil
	}
	inApp := setting == nil || setting.InAppAllowed()
	email := setting == nil || setting.EmailAllowed()

	if inApp {
		i.sendInApp(data, request, rcp, logger)
	}
	if email && rcp.email != "" {
		if err := i.emailSender.SendEMail(i.emailFrom, rcp.email, data.Msg, data.Title); err != nil {
			logger.WithError(err).Error("email delivery failed")
		}
	}
}

func (i impl) sendInApp(data models.NotificationData, request dbmodels.Request, rcp recipient, logger *log.Entry) {
	rec := dbmodels.Notification{
		UserID:    rcp.userID,
		Code:      data.Code,
		RequestID: request.ID,
		Title:     data.Title,
		Msg:       data.Msg,
	}
	if err := i.dataStore.Create(rec); err != nil {
		logger.WithError(err).Error("notification write failed")
		return
	}
	if i.hub != nil && rcp.pushEnabled && i.hub.IsConnected(rcp.userID) {
		i.hub.SendMessage(wsmodels.ServerMessage{
			ToUserID: rcp.userID,
			Code:     string(data.Code),
			Title:    data.Title,
			Msg:      data.Msg,
		})
	}
}

func (i impl) ListForUser(userID string) ([]notificationapimodels.NotificationView, error) {
	list, err := i.dataStore.List(userID, false)
	if err != nil {
		log.WithError(err).
			WithField("user_id", userID).
			Error("notification list failed")
		return nil, apperrors.Persistence(err, "notification list failed")
	}
	result := make([]notificationapimodels.NotificationView, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModelView())
	}
	return result, nil
}

func (i impl) getOwned(actor models.Actor, id string) (*dbmodels.Notification, error) {
	rec, err := i.dataStore.GetByID(id)
	if err != nil {
		return nil, apperrors.Persistence(err, "notification lookup failed")
	}
	if rec == nil {
		return nil, apperrors.NotFound("notification not found")
	}
	if rec.UserID != actor.UserID {
		return nil, apperrors.Forbidden("notification belongs to another user")
	}
	return rec, nil
}

func (i impl) MarkRead(actor models.Actor, id string) error {
	rec, err := i.getOwned(actor, id)
	if err != nil {
		return err
	}
	if err := i.dataStore.MarkRead(rec.ID); err != nil {
		return apperrors.Persistence(err, "notification update failed")
	}
	return nil
}

func (i impl) Dismiss(actor models.Actor, id string) error {
	rec, err := i.getOwned(actor, id)
	if err != nil {
		return err
	}
	if err := i.dataStore.Delete(rec.ID); err != nil {
		return apperrors.Persistence(err, "notification delete failed")
	}
	return nil
}
