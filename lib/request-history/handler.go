package requesthistoryhandler

import (
	"gorm.io/gorm"

	"staff-tools-backend/db"
	requesthistorystore "staff-tools-backend/lib/request-history/store"
	"staff-tools-backend/models"
	requestapimodels "staff-tools-backend/models/api/request"
	dbmodels "staff-tools-backend/models/db"
)

// Provider writes and reads the immutable audit trail. Append either fully
// succeeds or fails: a failed append must abort the surrounding state
// transition, so unlike other handlers it propagates the store error.
type Provider interface {
	Append(requestID string, previousState *models.RequestState, newState models.RequestState, actor models.Actor, note *string) (dbmodels.RequestHistory, error)
	List(requestID string) ([]requestapimodels.HistoryView, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: requesthistorystore.NewInstance(db.DB),
	}
}

// NewHandlerWithTx scopes the writer to a transaction so the state
// compare-and-swap and the history append commit as one unit.
func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		store: requesthistorystore.NewInstance(tx),
	}
}

type impl struct {
	store requesthistorystore.Provider
}

func (i impl) Append(requestID string, previousState *models.RequestState, newState models.RequestState, actor models.Actor, note *string) (dbmodels.RequestHistory, error) {
	rec := dbmodels.RequestHistory{
		RequestID:     requestID,
		PreviousState: previousState,
		NewState:      newState,
		ActorRole:     actor.Role,
		ActorName:     actor.UserName,
		Note:          note,
	}
	if actor.UserID != "" {
		rec.ActorID = &actor.UserID
	}
	if rec.ActorName == "" {
		rec.ActorName = models.SystemUser
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return dbmodels.RequestHistory{}, err
	}
	rec.ID = id
	return rec, nil
}

func (i impl) List(requestID string) ([]requestapimodels.HistoryView, error) {
	list, err := i.store.List(requestID)
	if err != nil {
		return nil, err
	}
	result := make([]requestapimodels.HistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, requestapimodels.HistoryConvert(rec))
	}
	return result, nil
}
