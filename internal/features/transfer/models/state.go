package models

// State is a phase of the transfer orchestration state machine. Failed is
// absorbing and reachable from every non-terminal state.
type State string

const (
	StateIdle                State = "idle"
	StateJoining             State = "joining"
	StateVerifyingOwnership  State = "verifying_ownership"
	StateRevokingAdmins      State = "revoking_admins"
	StateTransferringCreator State = "transferring_creator"
	StateLeaving             State = "leaving"
	StateCompleted           State = "completed"
	StateFailed              State = "failed"
)

// Irreversible reports whether a failure in this state leaves ownership with
// the buyer. A failed run past the handoff means "ownership moved, cleanup
// incomplete", not "transaction aborted".
func (s State) Irreversible() bool {
	return s == StateLeaving || s == StateCompleted
}
