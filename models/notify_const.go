package models

import "fmt"

type NotifyEventCode string

const (
	NotifyRequestSubmitted   NotifyEventCode = "NotifyRequestSubmitted"
	NotifyRequestPreApproved NotifyEventCode = "NotifyRequestPreApproved"
	NotifyRequestApproved    NotifyEventCode = "NotifyRequestApproved"
	NotifyRequestPaid        NotifyEventCode = "NotifyRequestPaid"
	NotifyRequestRejected    NotifyEventCode = "NotifyRequestRejected"
	NotifyTicketStatus       NotifyEventCode = "NotifyTicketStatus"
)

type NotifyTpl struct {
	Name  string
	Title string
	Msg   string
}

var NotifyCodeMap = map[NotifyEventCode]NotifyTpl{
	NotifyRequestSubmitted:   {Name: "Richiesta inviata", Title: "Nuova richiesta da valutare", Msg: "La richiesta «%v» di %v è stata inviata ed è in attesa di valutazione."},
	NotifyRequestPreApproved: {Name: "Richiesta pre-approvata", Title: "Richiesta pre-approvata", Msg: "La richiesta «%v» è stata pre-approvata da %v ed è in attesa dell'amministrazione."},
	NotifyRequestApproved:    {Name: "Richiesta approvata", Title: "Richiesta approvata", Msg: "La richiesta «%v» è stata approvata dall'amministrazione."},
	NotifyRequestPaid:        {Name: "Richiesta pagata", Title: "Richiesta pagata", Msg: "La richiesta «%v» è stata pagata."},
	NotifyRequestRejected:    {Name: "Richiesta rifiutata", Title: "Richiesta rifiutata", Msg: "La richiesta «%v» è stata rifiutata da %v."},
	NotifyTicketStatus:       {Name: "Stato ticket aggiornato", Title: "Ticket aggiornato", Msg: "Il ticket «%v» è passato allo stato %v."},
}

func KnownNotifyEvent(value string) (NotifyEventCode, bool) {
	code := NotifyEventCode(value)
	_, exist := NotifyCodeMap[code]
	return code, exist
}

type NotificationData struct {
	Code  NotifyEventCode
	Title string
	Msg   string
}

func GetNotifyRequestSubmitted(requestTitle, ownerName string) NotificationData {
	code := NotifyRequestSubmitted
	return NotificationData{
		Code:  code,
		Title: NotifyCodeMap[code].Title,
		Msg:   fmt.Sprintf(NotifyCodeMap[code].Msg, requestTitle, ownerName),
	}
}

func GetNotifyRequestPreApproved(requestTitle, reviewerName string) NotificationData {
	code := NotifyRequestPreApproved
	return NotificationData{
		Code:  code,
		Title: NotifyCodeMap[code].Title,
		Msg:   fmt.Sprintf(NotifyCodeMap[code].Msg, requestTitle, reviewerName),
	}
}

func GetNotifyRequestApproved(requestTitle string) NotificationData {
	code := NotifyRequestApproved
	return NotificationData{
		Code:  code,
		Title: NotifyCodeMap[code].Title,
		Msg:   fmt.Sprintf(NotifyCodeMap[code].Msg, requestTitle),
	}
}

func GetNotifyRequestPaid(requestTitle string) NotificationData {
	code := NotifyRequestPaid
	return NotificationData{
		Code:  code,
		Title: NotifyCodeMap[code].Title,
		Msg:   fmt.Sprintf(NotifyCodeMap[code].Msg, requestTitle),
	}
}

func GetNotifyRequestRejected(requestTitle, actorName string) NotificationData {
	code := NotifyRequestRejected
	return NotificationData{
		Code:  code,
		Title: NotifyCodeMap[code].Title,
		Msg:   fmt.Sprintf(NotifyCodeMap[code].Msg, requestTitle, actorName),
	}
}

func GetNotifyTicketStatus(ticketTitle string, state RequestState) NotificationData {
	code := NotifyTicketStatus
	return NotificationData{
		Code:  code,
		Title: NotifyCodeMap[code].Title,
		Msg:   fmt.Sprintf(NotifyCodeMap[code].Msg, ticketTitle, state.ToHuman()),
	}
}

// EventForTransition maps a committed edge to its notification event.
// Ticket edges all share one event, the approval chain has one per step.
func EventForTransition(kind RequestKind, to RequestState) (NotifyEventCode, bool) {
	if kind == KindTicket {
		return NotifyTicketStatus, true
	}
	switch to {
	case StateSubmitted:
		return NotifyRequestSubmitted, true
	case StatePreApproved:
		return NotifyRequestPreApproved, true
	case StateApproved:
		return NotifyRequestApproved, true
	case StatePaid:
		return NotifyRequestPaid, true
	case StateRejected:
		return NotifyRequestRejected, true
	}
	return "", false
}
