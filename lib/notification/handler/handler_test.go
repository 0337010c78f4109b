package notificationhandler

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"staff-tools-backend/lib/utils/apperrors"
	"staff-tools-backend/models"
	dbmodels "staff-tools-backend/models/db"
	wsmodels "staff-tools-backend/models/ws"
)

type fakeStaffStore struct {
	users   map[string]dbmodels.StaffUser
	listErr error
}

func (f *fakeStaffStore) Create(rec dbmodels.StaffUser) (string, error) { return rec.ID, nil }

func (f *fakeStaffStore) GetByID(id string) (*dbmodels.StaffUser, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	user, exist := f.users[id]
	if !exist {
		return nil, nil
	}
	return &user, nil
}

func (f *fakeStaffStore) ListByRole(role models.UserRole) ([]dbmodels.StaffUser, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	list := []dbmodels.StaffUser{}
	for _, user := range f.users {
		if user.Role == role {
			list = append(list, user)
		}
	}
	return list, nil
}

func (f *fakeStaffStore) ListReviewersByCommunity(community string) ([]dbmodels.StaffUser, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	list := []dbmodels.StaffUser{}
	for _, user := range f.users {
		if user.Role != models.ReviewerRole {
			continue
		}
		if community == "" || contains(user.Communities, community) {
			list = append(list, user)
		}
	}
	return list, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

type fakeSettingsStore struct {
	settings  map[string]dbmodels.NotificationSetting
	lookupErr error
}

func settingKey(code models.NotifyEventCode, role models.UserRole) string {
	return fmt.Sprintf("%v|%v", code, role)
}

func (f *fakeSettingsStore) Upsert(rec dbmodels.NotificationSetting) error {
	f.settings[settingKey(rec.Code, rec.Role)] = rec
	return nil
}

func (f *fakeSettingsStore) List() ([]dbmodels.NotificationSetting, error) {
	list := []dbmodels.NotificationSetting{}
	for _, rec := range f.settings {
		list = append(list, rec)
	}
	return list, nil
}

func (f *fakeSettingsStore) GetByCodeAndRole(code models.NotifyEventCode, role models.UserRole) (*dbmodels.NotificationSetting, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	rec, exist := f.settings[settingKey(code, role)]
	if !exist {
		return nil, nil
	}
	return &rec, nil
}

type fakeDataStore struct {
	rows      map[string]*dbmodels.Notification
	nextID    int
	createErr error
}

func newFakeDataStore() *fakeDataStore {
	return &fakeDataStore{rows: map[string]*dbmodels.Notification{}}
}

func (f *fakeDataStore) Create(rec dbmodels.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	rec.ID = fmt.Sprintf("ntf-%d", f.nextID)
	f.rows[rec.ID] = &rec
	return nil
}

func (f *fakeDataStore) List(userID string, unreadOnly bool) ([]dbmodels.Notification, error) {
	list := []dbmodels.Notification{}
	for _, rec := range f.rows {
		if rec.UserID != userID {
			continue
		}
		if unreadOnly && rec.Read {
			continue
		}
		list = append(list, *rec)
	}
	return list, nil
}

func (f *fakeDataStore) GetByID(id string) (*dbmodels.Notification, error) {
	rec, exist := f.rows[id]
	if !exist {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeDataStore) MarkRead(id string) error {
	f.rows[id].Read = true
	return nil
}

func (f *fakeDataStore) Delete(id string) error {
	delete(f.rows, id)
	return nil
}

type fakeEmailSender struct {
	sent    []string
	sendErr error
}

func (f *fakeEmailSender) SendEMail(from, to, message, subject string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeHub struct {
	connected map[string]bool
	pushed    []wsmodels.ServerMessage
}

func (f *fakeHub) SendMessage(msg wsmodels.ServerMessage) {
	f.pushed = append(f.pushed, msg)
}

func (f *fakeHub) IsConnected(userID string) bool {
	return f.connected[userID]
}

type dispatcherFixture struct {
	dispatcher impl
	staff      *fakeStaffStore
	settings   *fakeSettingsStore
	data       *fakeDataStore
	email      *fakeEmailSender
	hub        *fakeHub
}

func newDispatcherFixture() *dispatcherFixture {
	f := &dispatcherFixture{
		staff: &fakeStaffStore{users: map[string]dbmodels.StaffUser{
			"u-col":  {BaseModel: dbmodels.BaseModel{ID: "u-col"}, Role: models.CollaboratorRole, Email: "carla@example.it", PushEnabled: true},
			"u-rev":  {BaseModel: dbmodels.BaseModel{ID: "u-rev"}, Role: models.ReviewerRole, Email: "marco@example.it", Communities: pq.StringArray{"milano"}, PushEnabled: true},
			"u-rev2": {BaseModel: dbmodels.BaseModel{ID: "u-rev2"}, Role: models.ReviewerRole, Email: "paola@example.it", Communities: pq.StringArray{"torino"}, PushEnabled: true},
			"u-adm":  {BaseModel: dbmodels.BaseModel{ID: "u-adm"}, Role: models.AdminRole, Email: "anna@example.it", PushEnabled: true},
		}},
		settings: &fakeSettingsStore{settings: map[string]dbmodels.NotificationSetting{}},
		data:     newFakeDataStore(),
		email:    &fakeEmailSender{},
		hub:      &fakeHub{connected: map[string]bool{}},
	}
	f.dispatcher = impl{
		staffStore:    f.staff,
		settingsStore: f.settings,
		dataStore:     f.data,
		emailSender:   f.email,
		hub:           f.hub,
		emailFrom:     "noreply@staff-tools.local",
	}
	return f
}

func expenseRequest() dbmodels.Request {
	return dbmodels.Request{
		BaseModel: dbmodels.BaseModel{ID: "req-1"},
		Kind:      models.KindExpense,
		OwnerID:   "u-col",
		Title:     "Rimborso trasferta",
		Community: "milano",
		State:     models.StatePending,
	}
}

func boolPtr(v bool) *bool { return &v }

func TestDispatch(t *testing.T) {
	actor := models.Actor{UserID: "u-col", Role: models.CollaboratorRole}

	t.Run(`submission targets the community reviewers check`, func(t *testing.T) {
		f := newDispatcherFixture()
		f.dispatcher.Dispatch(models.GetNotifyRequestSubmitted("Rimborso trasferta", "Carla"), expenseRequest(), actor)
		rows, _ := f.data.List("u-rev", false)
		require.Len(t, rows, 1)
		rows, _ = f.data.List("u-rev2", false)
		require.Empty(t, rows)
		rows, _ = f.data.List("u-adm", false)
		require.Empty(t, rows)
	})

	t.Run(`pre-approval targets the whole admin role check`, func(t *testing.T) {
		f := newDispatcherFixture()
		f.dispatcher.Dispatch(models.GetNotifyRequestPreApproved("Rimborso trasferta", "Marco"), expenseRequest(), models.Actor{UserID: "u-rev", Role: models.ReviewerRole})
		rows, _ := f.data.List("u-adm", false)
		require.Len(t, rows, 1)
	})

	t.Run(`other events target the owner check`, func(t *testing.T) {
		f := newDispatcherFixture()
		f.dispatcher.Dispatch(models.GetNotifyRequestRejected("Rimborso trasferta", "Anna"), expenseRequest(), models.Actor{UserID: "u-adm", Role: models.AdminRole})
		rows, _ := f.data.List("u-col", false)
		require.Len(t, rows, 1)
		require.Contains(t, f.email.sent, "carla@example.it")
	})

	t.Run(`the acting user is never notified check`, func(t *testing.T) {
		f := newDispatcherFixture()
		f.dispatcher.Dispatch(models.GetNotifyRequestRejected("Rimborso trasferta", "Carla"), expenseRequest(), actor)
		rows, _ := f.data.List("u-col", false)
		require.Empty(t, rows)
	})

	t.Run(`absent setting row means enabled check`, func(t *testing.T) {
		f := newDispatcherFixture()
		f.dispatcher.Dispatch(models.GetNotifyRequestRejected("Rimborso trasferta", "Anna"), expenseRequest(), models.Actor{UserID: "u-adm"})
		rows, _ := f.data.List("u-col", false)
		require.Len(t, rows, 1)
		require.Contains(t, f.email.sent, "carla@example.it")
	})

	t.Run(`explicit false disables one channel only check`, func(t *testing.T) {
		f := newDispatcherFixture()
		f.settings.Upsert(dbmodels.NotificationSetting{
			Code:         models.NotifyRequestRejected,
			Role:         models.CollaboratorRole,
			EmailEnabled: boolPtr(false),
		})
		f.dispatcher.Dispatch(models.GetNotifyRequestRejected("Rimborso trasferta", "Anna"), expenseRequest(), models.Actor{UserID: "u-adm"})
		rows, _ := f.data.List("u-col", false)
		require.Len(t, rows, 1)
		require.Empty(t, f.email.sent)
	})

	t.Run(`unreadable settings matrix falls open check`, func(t *testing.T) {
		f := newDispatcherFixture()
		f.settings.lookupErr = errors.New("settings table gone")
		f.dispatcher.Dispatch(models.GetNotifyRequestRejected("Rimborso trasferta", "Anna"), expenseRequest(), models.Actor{UserID: "u-adm"})
		rows, _ := f.data.List("u-col", false)
		require.Len(t, rows, 1)
	})

	t.Run(`connected user also gets a live push check`, func(t *testing.T) {
		f := newDispatcherFixture()
		f.hub.connected["u-col"] = true
		f.dispatcher.Dispatch(models.GetNotifyRequestPaid("Rimborso trasferta"), expenseRequest(), models.Actor{UserID: "u-adm"})
		require.Len(t, f.hub.pushed, 1)
		require.Equal(t, "u-col", f.hub.pushed[0].ToUserID)
	})

	t.Run(`push opt-out still writes the stored row check`, func(t *testing.T) {
		f := newDispatcherFixture()
		owner := f.staff.users["u-col"]
		owner.PushEnabled = false
		f.staff.users["u-col"] = owner
		f.hub.connected["u-col"] = true

		f.dispatcher.Dispatch(models.GetNotifyRequestPaid("Rimborso trasferta"), expenseRequest(), models.Actor{UserID: "u-adm"})
		require.Empty(t, f.hub.pushed)
		rows, _ := f.data.List("u-col", false)
		require.Len(t, rows, 1)
	})

	t.Run(`delivery failures never propagate check`, func(t *testing.T) {
		f := newDispatcherFixture()
		f.data.createErr = errors.New("insert failed")
		f.email.sendErr = errors.New("smtp down")
		require.NotPanics(t, func() {
			f.dispatcher.Dispatch(models.GetNotifyRequestPaid("Rimborso trasferta"), expenseRequest(), models.Actor{UserID: "u-adm"})
		})
	})
}

func TestNotificationOwnership(t *testing.T) {
	owner := models.Actor{UserID: "u-col", Role: models.CollaboratorRole}
	stranger := models.Actor{UserID: "u-rev", Role: models.ReviewerRole}

	t.Run(`mark read flips the flag for the owner check`, func(t *testing.T) {
		f := newDispatcherFixture()
		f.dispatcher.Dispatch(models.GetNotifyRequestPaid("Rimborso trasferta"), expenseRequest(), models.Actor{UserID: "u-adm"})
		rows, _ := f.data.List("u-col", false)
		require.Len(t, rows, 1)

		require.Nil(t, f.dispatcher.MarkRead(owner, rows[0].ID))
		require.True(t, f.data.rows[rows[0].ID].Read)
	})

	t.Run(`foreign notification is forbidden check`, func(t *testing.T) {
		f := newDispatcherFixture()
		f.dispatcher.Dispatch(models.GetNotifyRequestPaid("Rimborso trasferta"), expenseRequest(), models.Actor{UserID: "u-adm"})
		rows, _ := f.data.List("u-col", false)
		require.Len(t, rows, 1)

		err := f.dispatcher.MarkRead(stranger, rows[0].ID)
		require.True(t, apperrors.Is(err, apperrors.KindForbidden))
		err = f.dispatcher.Dismiss(stranger, rows[0].ID)
		require.True(t, apperrors.Is(err, apperrors.KindForbidden))
	})

	t.Run(`missing notification is not found check`, func(t *testing.T) {
		f := newDispatcherFixture()
		err := f.dispatcher.MarkRead(owner, "missing")
		require.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})

	t.Run(`dismiss removes the row check`, func(t *testing.T) {
		f := newDispatcherFixture()
		f.dispatcher.Dispatch(models.GetNotifyRequestPaid("Rimborso trasferta"), expenseRequest(), models.Actor{UserID: "u-adm"})
		rows, _ := f.data.List("u-col", false)
		require.Len(t, rows, 1)

		require.Nil(t, f.dispatcher.Dismiss(owner, rows[0].ID))
		rows, _ = f.data.List("u-col", false)
		require.Empty(t, rows)
	})
}
