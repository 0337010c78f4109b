package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestGraph(t *testing.T) {
	t.Run(`compensation forward chain check`, func(t *testing.T) {
		require.Equal(t, StateDraft, InitialState(KindCompensation))
		require.True(t, AllowedEdge(KindCompensation, StateDraft, StateSubmitted))
		require.True(t, AllowedEdge(KindCompensation, StateSubmitted, StatePreApproved))
		require.True(t, AllowedEdge(KindCompensation, StatePreApproved, StateApproved))
		require.True(t, AllowedEdge(KindCompensation, StateApproved, StatePaid))
	})

	t.Run(`compensation rejection exits check`, func(t *testing.T) {
		require.True(t, AllowedEdge(KindCompensation, StateSubmitted, StateRejected))
		require.True(t, AllowedEdge(KindCompensation, StatePreApproved, StateRejected))
		require.True(t, AllowedEdge(KindCompensation, StateApproved, StateRejected))
		// a draft cannot be rejected, only submitted
		require.False(t, AllowedEdge(KindCompensation, StateDraft, StateRejected))
	})

	t.Run(`no skipping and no backward edges check`, func(t *testing.T) {
		require.False(t, AllowedEdge(KindCompensation, StateDraft, StatePreApproved))
		require.False(t, AllowedEdge(KindCompensation, StateDraft, StatePaid))
		require.False(t, AllowedEdge(KindCompensation, StateSubmitted, StateApproved))
		require.False(t, AllowedEdge(KindCompensation, StatePreApproved, StateSubmitted))
		require.False(t, AllowedEdge(KindCompensation, StatePaid, StateRejected))
		require.False(t, AllowedEdge(KindCompensation, StateRejected, StateSubmitted))
	})

	t.Run(`expense chain check`, func(t *testing.T) {
		require.Equal(t, StatePending, InitialState(KindExpense))
		require.True(t, AllowedEdge(KindExpense, StatePending, StatePreApproved))
		require.True(t, AllowedEdge(KindExpense, StatePreApproved, StateApproved))
		require.True(t, AllowedEdge(KindExpense, StateApproved, StatePaid))
		require.True(t, AllowedEdge(KindExpense, StatePending, StateRejected))
		require.True(t, AllowedEdge(KindExpense, StatePreApproved, StateRejected))
		require.True(t, AllowedEdge(KindExpense, StateApproved, StateRejected))
		// there is no DRAFT for an expense
		require.False(t, AllowedEdge(KindExpense, StateDraft, StatePending))
		require.False(t, AllowedEdge(KindExpense, StatePaid, StateRejected))
	})

	t.Run(`ticket chain and reopen check`, func(t *testing.T) {
		require.Equal(t, StateOpen, InitialState(KindTicket))
		require.True(t, AllowedEdge(KindTicket, StateOpen, StateInProgress))
		require.True(t, AllowedEdge(KindTicket, StateInProgress, StateClosed))
		require.True(t, AllowedEdge(KindTicket, StateClosed, StateOpen))
		require.False(t, AllowedEdge(KindTicket, StateOpen, StateClosed))
		require.False(t, AllowedEdge(KindTicket, StateClosed, StateInProgress))
	})

	t.Run(`states are kind scoped check`, func(t *testing.T) {
		require.False(t, AllowedEdge(KindTicket, StateDraft, StateSubmitted))
		require.False(t, AllowedEdge(KindCompensation, StateOpen, StateInProgress))
		_, known := KnownState(KindTicket, string(StateSubmitted))
		require.False(t, known)
		_, known = KnownState(KindCompensation, string(StateDraft))
		require.True(t, known)
	})
}

func TestTransitionRoles(t *testing.T) {
	t.Run(`compensation submission is collaborator only check`, func(t *testing.T) {
		require.True(t, RoleAllowed(KindCompensation, StateDraft, StateSubmitted, CollaboratorRole))
		require.False(t, RoleAllowed(KindCompensation, StateDraft, StateSubmitted, ReviewerRole))
		require.False(t, RoleAllowed(KindCompensation, StateDraft, StateSubmitted, AdminRole))
	})

	t.Run(`pre-approval is reviewer only check`, func(t *testing.T) {
		require.True(t, RoleAllowed(KindCompensation, StateSubmitted, StatePreApproved, ReviewerRole))
		require.False(t, RoleAllowed(KindCompensation, StateSubmitted, StatePreApproved, CollaboratorRole))
		require.False(t, RoleAllowed(KindCompensation, StateSubmitted, StatePreApproved, AdminRole))
	})

	t.Run(`approval and payment are admin only check`, func(t *testing.T) {
		for _, kind := range []RequestKind{KindCompensation, KindExpense} {
			require.True(t, RoleAllowed(kind, StatePreApproved, StateApproved, AdminRole))
			require.False(t, RoleAllowed(kind, StatePreApproved, StateApproved, ReviewerRole))
			require.True(t, RoleAllowed(kind, StateApproved, StatePaid, AdminRole))
			require.False(t, RoleAllowed(kind, StateApproved, StatePaid, CollaboratorRole))
		}
	})

	t.Run(`rejection mirrors the forward actor check`, func(t *testing.T) {
		require.True(t, RoleAllowed(KindCompensation, StateSubmitted, StateRejected, ReviewerRole))
		require.False(t, RoleAllowed(KindCompensation, StateSubmitted, StateRejected, CollaboratorRole))
		require.True(t, RoleAllowed(KindCompensation, StatePreApproved, StateRejected, AdminRole))
		require.True(t, RoleAllowed(KindCompensation, StateApproved, StateRejected, AdminRole))
	})

	t.Run(`ticket reopen excludes collaborator check`, func(t *testing.T) {
		require.True(t, RoleAllowed(KindTicket, StateClosed, StateOpen, ReviewerRole))
		require.True(t, RoleAllowed(KindTicket, StateClosed, StateOpen, AdminRole))
		require.False(t, RoleAllowed(KindTicket, StateClosed, StateOpen, CollaboratorRole))
	})

	t.Run(`community scope marks reviewer edges only check`, func(t *testing.T) {
		require.True(t, EdgeCommunityScoped(KindCompensation, StateSubmitted, StatePreApproved))
		require.True(t, EdgeCommunityScoped(KindCompensation, StateSubmitted, StateRejected))
		require.True(t, EdgeCommunityScoped(KindExpense, StatePending, StatePreApproved))
		require.False(t, EdgeCommunityScoped(KindCompensation, StatePreApproved, StateApproved))
		require.False(t, EdgeCommunityScoped(KindTicket, StateOpen, StateInProgress))
	})

	t.Run(`owner and amount flags sit on the submission edge check`, func(t *testing.T) {
		require.True(t, EdgeOwnerOnly(KindCompensation, StateDraft, StateSubmitted))
		require.True(t, EdgeAmountRequired(KindCompensation, StateDraft, StateSubmitted))
		require.False(t, EdgeOwnerOnly(KindCompensation, StateSubmitted, StatePreApproved))
		require.False(t, EdgeAmountRequired(KindExpense, StatePending, StatePreApproved))
	})
}

func TestStateWindows(t *testing.T) {
	t.Run(`editable window per kind check`, func(t *testing.T) {
		require.True(t, IsEditable(KindCompensation, StateDraft))
		require.False(t, IsEditable(KindCompensation, StateSubmitted))
		require.True(t, IsEditable(KindExpense, StatePending))
		require.False(t, IsEditable(KindExpense, StatePreApproved))
		require.True(t, IsEditable(KindTicket, StateOpen))
		require.False(t, IsEditable(KindTicket, StateInProgress))
	})

	t.Run(`terminal states check`, func(t *testing.T) {
		require.True(t, IsTerminal(KindCompensation, StatePaid))
		require.True(t, IsTerminal(KindCompensation, StateRejected))
		require.True(t, IsTerminal(KindExpense, StatePaid))
		// CLOSED ends the forward chain even though reopening stays possible
		require.True(t, IsTerminal(KindTicket, StateClosed))
		require.False(t, IsTerminal(KindCompensation, StateApproved))
	})

	t.Run(`every edge leads to a known next state check`, func(t *testing.T) {
		for _, kind := range AllKinds {
			for _, edge := range Edges(kind) {
				next := NextStates(kind, edge.From)
				require.Contains(t, next, edge.To)
				_, known := KnownState(kind, string(edge.To))
				require.True(t, known)
			}
		}
	})
}

func TestEventForTransition(t *testing.T) {
	t.Run(`approval chain events check`, func(t *testing.T) {
		event, ok := EventForTransition(KindCompensation, StateSubmitted)
		require.True(t, ok)
		require.Equal(t, NotifyRequestSubmitted, event)
		event, ok = EventForTransition(KindExpense, StatePreApproved)
		require.True(t, ok)
		require.Equal(t, NotifyRequestPreApproved, event)
		event, ok = EventForTransition(KindCompensation, StateRejected)
		require.True(t, ok)
		require.Equal(t, NotifyRequestRejected, event)
	})

	t.Run(`every ticket edge maps to the status event check`, func(t *testing.T) {
		for _, state := range []RequestState{StateInProgress, StateClosed, StateOpen} {
			event, ok := EventForTransition(KindTicket, state)
			require.True(t, ok)
			require.Equal(t, NotifyTicketStatus, event)
		}
	})
}
