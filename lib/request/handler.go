package requesthandler

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"staff-tools-backend/db"
	docstorage "staff-tools-backend/lib/doc-storage"
	docdbstore "staff-tools-backend/lib/doc-storage/store"
	xlsexport "staff-tools-backend/lib/export/xls"
	notificationhandler "staff-tools-backend/lib/notification/handler"
	requesthistoryhandler "staff-tools-backend/lib/request-history"
	requeststore "staff-tools-backend/lib/request/store"
	staffstore "staff-tools-backend/lib/staff/store"
	"staff-tools-backend/lib/utils/apperrors"
	"staff-tools-backend/lib/utils/lock"
	"staff-tools-backend/models"
	requestapimodels "staff-tools-backend/models/api/request"
	dbmodels "staff-tools-backend/models/db"
)

// lockWait bounds how long a caller waits for the per-request critical
// section before giving up with a retryable failure.
const lockWait = 5 * time.Second

type Provider interface {
	Create(ctx context.Context, actor models.Actor, data requestapimodels.RequestCreateData) (id string, err error)
	ApplyTransition(ctx context.Context, actor models.Actor, id string, data requestapimodels.TransitionData) (requestapimodels.RequestView, error)
	AddAttachment(ctx context.Context, actor models.Actor, id string, data requestapimodels.AttachmentData) (requestapimodels.AttachmentView, error)
	GetByID(actor models.Actor, id string) (requestapimodels.RequestDetailView, error)
	GetAttachmentURLs(ctx context.Context, actor models.Actor, id, attachmentID string) (requestapimodels.AttachmentURLView, error)
	List(actor models.Actor, filter requestapimodels.RequestFilter) (list []requestapimodels.RequestView, rowCount int64, err error)
	Export(actor models.Actor) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:      requeststore.NewInstance(db.DB),
		docStore:   docdbstore.NewInstance(db.DB),
		staffStore: staffstore.NewInstance(db.DB),
		docs:       docstorage.Instance,
		notifier:   notificationhandler.Instance,
		exporter:   xlsexport.Instance,
		runInTx: func(fn func(tx *gorm.DB) error) error {
			return db.DB.Transaction(fn)
		},
		storeOf:    requeststore.NewInstance,
		docStoreOf: docdbstore.NewInstance,
		historyOf:  requesthistoryhandler.NewHandlerWithTx,
	}
}

type impl struct {
	store      requeststore.Provider
	docStore   docdbstore.Provider
	staffStore staffstore.Provider
	docs       docstorage.Provider
	notifier   notificationhandler.Provider
	exporter   xlsexport.Provider

	// transaction plumbing: the compare-and-swap and the history append
	// commit as one unit through these factories
	runInTx    func(fn func(tx *gorm.DB) error) error
	storeOf    func(tx *gorm.DB) requeststore.Provider
	docStoreOf func(tx *gorm.DB) docdbstore.Provider
	historyOf  func(tx *gorm.DB) requesthistoryhandler.Provider
}

func (i impl) Create(ctx context.Context, actor models.Actor, data requestapimodels.RequestCreateData) (id string, err error) {
	logger := log.
		WithField("user_id", actor.UserID).
		WithField("kind", data.Kind)
	if err := data.Validate(); err != nil {
		return "", apperrors.Validation(err)
	}
	kind, _ := models.KnownKind(data.Kind)

	ownerID := actor.UserID
	if data.OwnerID != "" && data.OwnerID != actor.UserID {
		// entering a compensation on a collaborator's behalf
		if kind != models.KindCompensation || actor.Role == models.CollaboratorRole {
			return "", apperrors.Forbidden("only responsabile or amministrazione may create a request on another user's behalf")
		}
		owner, err := i.staffStore.GetByID(data.OwnerID)
		if err != nil {
			return "", apperrors.Persistence(err, "owner lookup failed")
		}
		if owner == nil {
			return "", apperrors.Validation(errors.Errorf("owner not found: %v", data.OwnerID))
		}
		ownerID = data.OwnerID
	}

	rec := dbmodels.Request{
		Kind:        kind,
		OwnerID:     ownerID,
		Title:       data.Title,
		Community:   data.Community,
		State:       models.InitialState(kind),
		Amount:      data.Amount,
		Description: data.Description,
	}
	err = i.runInTx(func(tx *gorm.DB) error {
		store := i.storeOf(tx)
		id, err = store.Create(rec)
		if err != nil {
			return err
		}
		history := i.historyOf(tx)
		_, err = history.Append(id, nil, rec.State, actor, nil)
		return err
	})
	if err != nil {
		logger.WithError(err).Error("request creation failed")
		return "", apperrors.Persistence(err, "request creation failed")
	}
	logger.
		WithField("rec_id", id).
		Info("request created")

	// an expense enters the flow already submitted, reviewers are notified
	if kind == models.KindExpense {
		rec.ID = id
		go i.notifier.Dispatch(models.GetNotifyRequestSubmitted(rec.Title, actor.UserName), rec, actor)
	}
	return id, nil
}

func (i impl) ApplyTransition(ctx context.Context, actor models.Actor, id string, data requestapimodels.TransitionData) (requestapimodels.RequestView, error) {
	logger := log.
		WithField("rec_id", id).
		WithField("user_id", actor.UserID).
		WithField("target_state", data.TargetState)
	if err := data.Validate(); err != nil {
		return requestapimodels.RequestView{}, apperrors.Validation(err)
	}

	var result requestapimodels.RequestView
	locked, err := lock.WithDelay(ctx, lockKey(id), lockWait, func() error {
		rec, err := i.getRec(id)
		if err != nil {
			return err
		}
		target, known := models.KnownState(rec.Kind, data.TargetState)
		if !known {
			return apperrors.Validation(errors.Errorf("unknown state for %v: %v", rec.Kind, data.TargetState))
		}

		// retry of an already applied transition: return the prior success,
		// do not write a second history row. Only a principal who may read
		// the request gets the short-circuit, a stranger probing states is
		// not a retry.
		if rec.State == target {
			if !i.canView(rec, actor) {
				return apperrors.Forbidden("no access to this request")
			}
			result = requestapimodels.RequestConvert(*rec)
			return nil
		}

		if err := i.validateTransition(rec, actor, target); err != nil {
			return err
		}
		var pendingAttachment *dbmodels.Attachment
		if data.Attachment != nil {
			attachment, err := i.prepareAttachment(ctx, rec, actor, *data.Attachment)
			if err != nil {
				return err
			}
			pendingAttachment = &attachment
		}
		if models.EdgeAmountRequired(rec.Kind, rec.State, target) && rec.Amount <= 0 {
			return apperrors.Validation(errors.New("a positive amount is required before submission"))
		}

		fromState := rec.State
		err = i.runInTx(func(tx *gorm.DB) error {
			store := i.storeOf(tx)
			moved, err := store.UpdateState(rec.ID, fromState, target)
			if err != nil {
				return apperrors.Persistence(err, "state update failed")
			}
			if !moved {
				return errStateMoved
			}
			// the attachment row commits or rolls back with the state and
			// the audit row, only the blob upload sits outside
			if pendingAttachment != nil {
				attID, err := i.docStoreOf(tx).SaveAttachment(*pendingAttachment)
				if err != nil {
					return apperrors.Persistence(err, "attachment record save failed")
				}
				pendingAttachment.ID = attID
			}
			history := i.historyOf(tx)
			if _, err := history.Append(rec.ID, &fromState, target, actor, data.Note); err != nil {
				// rolls the state write back: no transition without its
				// audit row
				return apperrors.Persistence(err, "history append failed")
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, errStateMoved) {
				return i.resolveConcurrentMove(id, target, &result)
			}
			if apperrors.KindOf(err) == apperrors.KindPersistence {
				return err
			}
			return apperrors.Persistence(err, "transition commit failed")
		}

		rec.State = target
		result = requestapimodels.RequestConvert(*rec)
		logger.Info("request state changed")

		if event, ok := models.EventForTransition(rec.Kind, target); ok {
			go i.notifier.Dispatch(i.buildNotification(event, *rec, actor), *rec, actor)
		}
		return nil
	})
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	if !locked {
		return requestapimodels.RequestView{}, apperrors.New(apperrors.KindPersistence, "request is busy, retry later")
	}
	return result, nil
}

var errStateMoved = errors.New("state moved concurrently")

// resolveConcurrentMove re-reads a request whose compare-and-swap lost the
// race: a retry that finds its own target already applied succeeds
// idempotently, a genuinely conflicting transition fails as invalid.
func (i impl) resolveConcurrentMove(id string, target models.RequestState, result *requestapimodels.RequestView) error {
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if rec.State == target {
		*result = requestapimodels.RequestConvert(*rec)
		return nil
	}
	return apperrors.InvalidTransition("request already moved to %v", rec.State)
}

// validateTransition checks the graph edge first, then every role facet of
// the edge: allow-list, owner restriction, reviewer community scope. Field
// completeness comes after the attachment handling in the caller.
func (i impl) validateTransition(rec *dbmodels.Request, actor models.Actor, target models.RequestState) error {
	if !models.AllowedEdge(rec.Kind, rec.State, target) {
		return apperrors.InvalidTransition("transition %v -> %v is not permitted for %v", rec.State, target, rec.Kind)
	}
	if !models.RoleAllowed(rec.Kind, rec.State, target, actor.Role) {
		return apperrors.Forbidden(fmt.Sprintf("role %v may not apply %v -> %v", actor.Role.ToHuman(), rec.State, target))
	}
	if models.EdgeOwnerOnly(rec.Kind, rec.State, target) && rec.OwnerID != actor.UserID {
		return apperrors.Forbidden("only the request owner may submit it")
	}
	if models.EdgeCommunityScoped(rec.Kind, rec.State, target) && !actor.InCommunity(rec.Community) {
		return apperrors.Forbidden("request community is outside the reviewer's assignment")
	}
	return nil
}

func (i impl) AddAttachment(ctx context.Context, actor models.Actor, id string, data requestapimodels.AttachmentData) (requestapimodels.AttachmentView, error) {
	if err := data.Validate(); err != nil {
		return requestapimodels.AttachmentView{}, apperrors.Validation(err)
	}
	var view requestapimodels.AttachmentView
	// shares the transition lock so the editable-window check cannot race a
	// concurrent submission
	locked, err := lock.WithDelay(ctx, lockKey(id), lockWait, func() error {
		rec, err := i.getRec(id)
		if err != nil {
			return err
		}
		if !i.canEditAttachments(rec, actor) {
			return apperrors.Forbidden("no attachment rights on this request")
		}
		attachment, err := i.prepareAttachment(ctx, rec, actor, data)
		if err != nil {
			return err
		}
		attID, err := i.docStore.SaveAttachment(attachment)
		if err != nil {
			return apperrors.Persistence(err, "attachment record save failed")
		}
		attachment.ID = attID
		view = requestapimodels.AttachmentConvert(attachment)
		return nil
	})
	if err != nil {
		return requestapimodels.AttachmentView{}, err
	}
	if !locked {
		return requestapimodels.AttachmentView{}, apperrors.New(apperrors.KindPersistence, "request is busy, retry later")
	}
	return view, nil
}

// prepareAttachment checks the editable window and uploads the blob. The
// caller saves the row itself, inside its transaction where one is running.
// A blob that outlives a failed transition is harmless: the path is
// deterministic, a retry re-uploads the same object key.
func (i impl) prepareAttachment(ctx context.Context, rec *dbmodels.Request, actor models.Actor, data requestapimodels.AttachmentData) (dbmodels.Attachment, error) {
	if !models.IsEditable(rec.Kind, rec.State) {
		return dbmodels.Attachment{}, apperrors.EditingNotAllowed(fmt.Sprintf("attachments are frozen in state %v", rec.State))
	}
	path := i.docs.DerivePath(rec.OwnerID, rec.ID, data.FileName)
	if err := i.docs.Upload(ctx, path, data.ContentType, data.Content); err != nil {
		log.WithError(err).
			WithField("rec_id", rec.ID).
			WithField("path", path).
			Error("attachment upload failed")
		return dbmodels.Attachment{}, apperrors.Persistence(err, "attachment upload failed")
	}
	return dbmodels.Attachment{
		RequestID:   rec.ID,
		FileName:    data.FileName,
		ContentType: data.ContentType,
		StoragePath: path,
		UploadedBy:  actor.UserID,
	}, nil
}

func (i impl) GetByID(actor models.Actor, id string) (requestapimodels.RequestDetailView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return requestapimodels.RequestDetailView{}, err
	}
	if !i.canView(rec, actor) {
		return requestapimodels.RequestDetailView{}, apperrors.Forbidden("no access to this request")
	}
	return requestapimodels.RequestDetailConvert(*rec), nil
}

func (i impl) GetAttachmentURLs(ctx context.Context, actor models.Actor, id, attachmentID string) (requestapimodels.AttachmentURLView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return requestapimodels.AttachmentURLView{}, err
	}
	if !i.canView(rec, actor) {
		return requestapimodels.AttachmentURLView{}, apperrors.Forbidden("no access to this request")
	}
	attachment, err := i.docStore.GetByID(attachmentID)
	if err != nil {
		return requestapimodels.AttachmentURLView{}, apperrors.Persistence(err, "attachment lookup failed")
	}
	if attachment == nil || attachment.RequestID != rec.ID {
		return requestapimodels.AttachmentURLView{}, apperrors.NotFound("attachment not found")
	}
	pair := i.docs.IssueURLs(ctx, attachment.StoragePath, nil)
	return requestapimodels.AttachmentURLView{
		OriginalURL: pair.OriginalURL,
		SignedURL:   pair.SignedURL,
	}, nil
}

func (i impl) List(actor models.Actor, filter requestapimodels.RequestFilter) (list []requestapimodels.RequestView, rowCount int64, err error) {
	ownership := i.ownershipOf(actor)
	rowCount, err = i.store.ListCount(filter, ownership)
	if err != nil {
		return nil, 0, apperrors.Persistence(err, "request list failed")
	}
	recList, err := i.store.List(filter, ownership)
	if err != nil {
		log.WithError(err).Error("request list failed")
		return nil, 0, apperrors.Persistence(err, "request list failed")
	}
	result := make([]requestapimodels.RequestView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, requestapimodels.RequestConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Export(actor models.Actor) (*bytes.Buffer, error) {
	if !actor.Role.IsAdmin() {
		return nil, apperrors.Forbidden("only amministrazione may export the register")
	}
	list, err := i.store.ListAll()
	if err != nil {
		return nil, apperrors.Persistence(err, "request list failed")
	}
	buf, err := i.exporter.ExportRequestList(list)
	if err != nil {
		return nil, apperrors.Persistence(err, "register export failed")
	}
	return buf, nil
}

func (i impl) getRec(id string) (*dbmodels.Request, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		log.WithError(err).
			WithField("rec_id", id).
			Error("request lookup failed")
		return nil, apperrors.Persistence(err, "request lookup failed")
	}
	if rec == nil {
		return nil, apperrors.NotFound("request not found")
	}
	return rec, nil
}

func (i impl) canView(rec *dbmodels.Request, actor models.Actor) bool {
	if actor.Role.IsAdmin() || rec.OwnerID == actor.UserID {
		return true
	}
	if actor.Role.IsReviewer() {
		return rec.Kind == models.KindTicket || actor.InCommunity(rec.Community)
	}
	return false
}

func (i impl) canEditAttachments(rec *dbmodels.Request, actor models.Actor) bool {
	if rec.OwnerID == actor.UserID || actor.Role.IsAdmin() {
		return true
	}
	return actor.Role.IsReviewer() && actor.InCommunity(rec.Community)
}

func (i impl) ownershipOf(actor models.Actor) requeststore.Ownership {
	switch {
	case actor.Role.IsAdmin():
		return requeststore.Ownership{}
	case actor.Role.IsReviewer():
		communities := actor.Communities
		if communities == nil {
			communities = []string{}
		}
		return requeststore.Ownership{Communities: communities}
	default:
		return requeststore.Ownership{OwnerID: actor.UserID}
	}
}

func (i impl) buildNotification(event models.NotifyEventCode, rec dbmodels.Request, actor models.Actor) models.NotificationData {
	switch event {
	case models.NotifyRequestSubmitted:
		return models.GetNotifyRequestSubmitted(rec.Title, actor.UserName)
	case models.NotifyRequestPreApproved:
		return models.GetNotifyRequestPreApproved(rec.Title, actor.UserName)
	case models.NotifyRequestApproved:
		return models.GetNotifyRequestApproved(rec.Title)
	case models.NotifyRequestPaid:
		return models.GetNotifyRequestPaid(rec.Title)
	case models.NotifyRequestRejected:
		return models.GetNotifyRequestRejected(rec.Title, actor.UserName)
	default:
		return models.GetNotifyTicketStatus(rec.Title, rec.State)
	}
}

func lockKey(id string) string {
	return "request:" + id
}
