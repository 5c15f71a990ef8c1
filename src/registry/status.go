package registry

import (
	"slices"

	"github.com/sbtc-bridge/registry/src/utils/model"
)

// Privileged write path originating an update.
type UpdatePath string

const (
	// Off-chain process observing the Bitcoin chain
	PathSidecar UpdatePath = "sidecar"

	// Process attesting peg decisions
	PathSigner UpdatePath = "signer"
)

// Legal forward edges of the deposit state machine. Terminal states
// have no entry. Reclaiming supersedes the normal flow, so it is legal
// from every non-terminal state.
var transitions = map[model.DepositStatus][]model.DepositStatus{
	model.DepositStatusPending:   {model.DepositStatusConfirmed, model.DepositStatusReclaimed},
	model.DepositStatusConfirmed: {model.DepositStatusAccepted, model.DepositStatusReclaimed},
	model.DepositStatusAccepted:  {model.DepositStatusReclaimed, model.DepositStatusFailed},
}

// Statuses each path may move a deposit into. The sidecar reports what
// it saw on chain, the signer reports peg decisions.
var pathStatuses = map[UpdatePath][]model.DepositStatus{
	PathSidecar: {model.DepositStatusConfirmed, model.DepositStatusReclaimed},
	PathSigner:  {model.DepositStatusAccepted, model.DepositStatusFailed},
}

// ValidateTransition decides whether the given path may move a deposit
// from current to requested. Pure, no side effects. Keeping the status
// unchanged is always allowed.
func ValidateTransition(current, requested model.DepositStatus, path UpdatePath) error {
	if requested == current {
		return nil
	}
	if !requested.IsValid() {
		return &InvalidTransitionError{Current: current, Requested: requested}
	}
	if !slices.Contains(pathStatuses[path], requested) {
		return ErrForbidden
	}
	if !slices.Contains(transitions[current], requested) {
		return &InvalidTransitionError{Current: current, Requested: requested}
	}
	return nil
}
