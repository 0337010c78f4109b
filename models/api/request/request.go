package requestapimodels

import (
	"time"

	"github.com/pkg/errors"

	"staff-tools-backend/models"
	apimodels "staff-tools-backend/models/api"
	dbmodels "staff-tools-backend/models/db"
)

type RequestCreateData struct {
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Community   string  `json:"community,omitempty"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	// only responsabile/amministrazione may fill this in, entering a
	// compensation on a collaborator's behalf
	OwnerID string `json:"owner_id,omitempty"`
}

func (r RequestCreateData) Validate() error {
	kind, known := models.KnownKind(r.Kind)
	if !known {
		return errors.Errorf("unknown request kind: %v", r.Kind)
	}
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Amount < 0 {
		return errors.New("amount must not be negative")
	}
	if kind == models.KindExpense && r.Amount <= 0 {
		return errors.New("a reimbursement requires a positive amount")
	}
	if kind == models.KindTicket && r.Amount != 0 {
		return errors.New("a ticket carries no amount")
	}
	return nil
}

type AttachmentData struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	Content     []byte `json:"content"`
}

func (r AttachmentData) Validate() error {
	if r.FileName == "" {
		return errors.New("file_name is required")
	}
	if len(r.Content) == 0 {
		return errors.New("content is required")
	}
	return nil
}

type TransitionData struct {
	TargetState string          `json:"target_state"`
	Note        *string         `json:"note,omitempty"`
	Attachment  *AttachmentData `json:"attachment,omitempty"`
}

func (r TransitionData) Validate() error {
	if r.TargetState == "" {
		return errors.New("target_state is required")
	}
	if r.Attachment != nil {
		return r.Attachment.Validate()
	}
	return nil
}

type RequestFilter struct {
	apimodels.Pagination
	Kind  string `json:"kind,omitempty"`
	State string `json:"state,omitempty"`
}

type RequestView struct {
	ID          string              `json:"id"`
	Kind        models.RequestKind  `json:"kind"`
	Title       string              `json:"title"`
	OwnerID     string              `json:"owner_id"`
	OwnerName   string              `json:"owner_name,omitempty"`
	Community   string              `json:"community,omitempty"`
	State       models.RequestState `json:"state"`
	StateName   string              `json:"state_name"`
	Amount      float64             `json:"amount"`
	Description string              `json:"description,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type RequestDetailView struct {
	RequestView
	Attachments []AttachmentView `json:"attachments"`
	History     []HistoryView    `json:"history"`
}

type AttachmentView struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type AttachmentURLView struct {
	OriginalURL string  `json:"original_url"`
	SignedURL   *string `json:"signed_url,omitempty"`
}

type HistoryView struct {
	ID            string               `json:"id"`
	PreviousState *models.RequestState `json:"previous_state,omitempty"`
	NewState      models.RequestState  `json:"new_state"`
	ActorRole     models.UserRole      `json:"actor_role"`
	ActorName     string               `json:"actor_name,omitempty"`
	Note          *string              `json:"note,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

func RequestConvert(rec dbmodels.Request) RequestView {
	view := RequestView{
		ID:          rec.ID,
		Kind:        rec.Kind,
		Title:       rec.Title,
		OwnerID:     rec.OwnerID,
		Community:   rec.Community,
		State:       rec.State,
		StateName:   rec.State.ToHuman(),
		Amount:      rec.Amount,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.Owner != nil {
		view.OwnerName = rec.Owner.GetFullName()
	}
	return view
}

func RequestDetailConvert(rec dbmodels.Request) RequestDetailView {
	view := RequestDetailView{
		RequestView: RequestConvert(rec),
		Attachments: make([]AttachmentView, 0, len(rec.Attachments)),
		History:     make([]HistoryView, 0, len(rec.History)),
	}
	for _, att := range rec.Attachments {
		view.Attachments = append(view.Attachments, AttachmentConvert(att))
	}
	for _, entry := range rec.History {
		view.History = append(view.History, HistoryConvert(entry))
	}
	return view
}

func AttachmentConvert(rec dbmodels.Attachment) AttachmentView {
	return AttachmentView{
		ID:          rec.ID,
		FileName:    rec.FileName,
		ContentType: rec.ContentType,
		CreatedAt:   rec.CreatedAt,
	}
}

func HistoryConvert(rec dbmodels.RequestHistory) HistoryView {
	return HistoryView{
		ID:            rec.ID,
		PreviousState: rec.PreviousState,
		NewState:      rec.NewState,
		ActorRole:     rec.ActorRole,
		ActorName:     rec.ActorName,
		Note:          rec.Note,
		CreatedAt:     rec.CreatedAt,
	}
}
