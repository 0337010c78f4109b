package models

type RequestKind string

const (
	KindCompensation RequestKind = "COMPENSATION"
	KindExpense      RequestKind = "EXPENSE"
	KindTicket       RequestKind = "TICKET"
)

var AllKinds = []RequestKind{KindCompensation, KindExpense, KindTicket}

var kindHumanName = map[RequestKind]string{
	KindCompensation: "Compenso",
	KindExpense:      "Rimborso spese",
	KindTicket:       "Ticket",
}

func (k RequestKind) ToHuman() string {
	if human, exist := kindHumanName[k]; exist {
		return human
	}
	return string(k)
}

func KnownKind(value string) (RequestKind, bool) {
	kind := RequestKind(value)
	for _, k := range AllKinds {
		if k == kind {
			return kind, true
		}
	}
	return kind, false
}

type RequestState string

const (
	StateDraft       RequestState = "DRAFT"
	StateSubmitted   RequestState = "SUBMITTED"
	StatePending     RequestState = "PENDING"
	StatePreApproved RequestState = "PRE_APPROVED_BY_REVIEWER"
	StateApproved    RequestState = "APPROVED_BY_ADMIN"
	StatePaid        RequestState = "PAID"
	StateRejected    RequestState = "REJECTED"
	StateOpen        RequestState = "OPEN"
	StateInProgress  RequestState = "IN_PROGRESS"
	StateClosed      RequestState = "CLOSED"
)

var stateHumanName = map[RequestState]string{
	StateDraft:       "Bozza",
	StateSubmitted:   "Inviata",
	StatePending:     "In attesa",
	StatePreApproved: "Pre-approvata dal responsabile",
	StateApproved:    "Approvata dall'amministrazione",
	StatePaid:        "Pagata",
	StateRejected:    "Rifiutata",
	StateOpen:        "Aperto",
	StateInProgress:  "In lavorazione",
	StateClosed:      "Chiuso",
}

func (s RequestState) ToHuman() string {
	if human, exist := stateHumanName[s]; exist {
		return human
	}
	return string(s)
}

// Edge is one permitted (from -> to) pair in a kind's state graph.
type Edge struct {
	Kind RequestKind
	From RequestState
	To   RequestState
}

// transitionRoles is the single source of truth for the state graphs and for
// which role may walk which edge. Adding a role or an edge is a data change
// here, not a code change in the engine.
var transitionRoles = map[Edge][]UserRole{
	// compensation forward chain
	{KindCompensation, StateDraft, StateSubmitted}:      {CollaboratorRole},
	{KindCompensation, StateSubmitted, StatePreApproved}: {ReviewerRole},
	{KindCompensation, StatePreApproved, StateApproved}:  {AdminRole},
	{KindCompensation, StateApproved, StatePaid}:         {AdminRole},
	// compensation rejection side-exits
	{KindCompensation, StateSubmitted, StateRejected}:   {ReviewerRole},
	{KindCompensation, StatePreApproved, StateRejected}: {AdminRole},
	{KindCompensation, StateApproved, StateRejected}:    {AdminRole},

	// expense forward chain, PENDING plays the submitted role
	{KindExpense, StatePending, StatePreApproved}:    {ReviewerRole},
	{KindExpense, StatePreApproved, StateApproved}:   {AdminRole},
	{KindExpense, StateApproved, StatePaid}:          {AdminRole},
	// expense rejection side-exits
	{KindExpense, StatePending, StateRejected}:     {ReviewerRole},
	{KindExpense, StatePreApproved, StateRejected}: {AdminRole},
	{KindExpense, StateApproved, StateRejected}:    {AdminRole},

	// ticket chain, CLOSED -> OPEN is the single permitted backward edge
	{KindTicket, StateOpen, StateInProgress}:   {ReviewerRole, AdminRole},
	{KindTicket, StateInProgress, StateClosed}: {ReviewerRole, AdminRole},
	{KindTicket, StateClosed, StateOpen}:       {ReviewerRole, AdminRole},
}

// communityScoped marks reviewer edges that require the request community to
// be inside the acting reviewer's assignment set.
var communityScoped = map[Edge]bool{
	{KindCompensation, StateSubmitted, StatePreApproved}: true,
	{KindCompensation, StateSubmitted, StateRejected}:    true,
	{KindExpense, StatePending, StatePreApproved}:        true,
	{KindExpense, StatePending, StateRejected}:           true,
}

// ownerOnly marks edges that only the owning collaborator may walk.
var ownerOnly = map[Edge]bool{
	{KindCompensation, StateDraft, StateSubmitted}: true,
}

// amountRequired marks edges that demand a positive amount on the request.
var amountRequired = map[Edge]bool{
	{KindCompensation, StateDraft, StateSubmitted}: true,
}

var initialStates = map[RequestKind]RequestState{
	KindCompensation: StateDraft,
	KindExpense:      StatePending,
	KindTicket:       StateOpen,
}

// editableStates is the attachment window per kind.
var editableStates = map[RequestKind][]RequestState{
	KindCompensation: {StateDraft},
	KindExpense:      {StatePending},
	KindTicket:       {StateOpen},
}

var terminalStates = map[RequestKind][]RequestState{
	KindCompensation: {StatePaid, StateRejected},
	KindExpense:      {StatePaid, StateRejected},
	// CLOSED is terminal for the forward chain, the reopen edge is still
	// listed in transitionRoles
	KindTicket: {StateClosed},
}

func InitialState(kind RequestKind) RequestState {
	return initialStates[kind]
}

func KnownState(kind RequestKind, value string) (RequestState, bool) {
	state := RequestState(value)
	if state == initialStates[kind] {
		return state, true
	}
	for edge := range transitionRoles {
		if edge.Kind == kind && (edge.From == state || edge.To == state) {
			return state, true
		}
	}
	return state, false
}

func AllowedEdge(kind RequestKind, from, to RequestState) bool {
	_, exist := transitionRoles[Edge{kind, from, to}]
	return exist
}

func EdgeRoles(kind RequestKind, from, to RequestState) []UserRole {
	return transitionRoles[Edge{kind, from, to}]
}

func RoleAllowed(kind RequestKind, from, to RequestState, role UserRole) bool {
	for _, allowed := range transitionRoles[Edge{kind, from, to}] {
		if allowed == role {
			return true
		}
	}
	return false
}

func EdgeCommunityScoped(kind RequestKind, from, to RequestState) bool {
	return communityScoped[Edge{kind, from, to}]
}

func EdgeOwnerOnly(kind RequestKind, from, to RequestState) bool {
	return ownerOnly[Edge{kind, from, to}]
}

func EdgeAmountRequired(kind RequestKind, from, to RequestState) bool {
	return amountRequired[Edge{kind, from, to}]
}

func IsEditable(kind RequestKind, state RequestState) bool {
	for _, s := range editableStates[kind] {
		if s == state {
			return true
		}
	}
	return false
}

func IsTerminal(kind RequestKind, state RequestState) bool {
	for _, s := range terminalStates[kind] {
		if s == state {
			return true
		}
	}
	return false
}

func NextStates(kind RequestKind, from RequestState) []RequestState {
	next := []RequestState{}
	for edge := range transitionRoles {
		if edge.Kind == kind && edge.From == from {
			next = append(next, edge.To)
		}
	}
	return next
}

// Edges returns every permitted edge of a kind's graph.
func Edges(kind RequestKind) []Edge {
	list := []Edge{}
	for edge := range transitionRoles {
		if edge.Kind == kind {
			list = append(list, edge)
		}
	}
	return list
}
