package registry

import (
	"errors"
	"testing"

	"github.com/sbtc-bridge/registry/src/utils/model"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransition(t *testing.T) {
	for _, tt := range []struct {
		name      string
		current   model.DepositStatus
		requested model.DepositStatus
		path      UpdatePath
		expected  error
	}{
		{"sidecar confirms pending", model.DepositStatusPending, model.DepositStatusConfirmed, PathSidecar, nil},
		{"sidecar reclaims pending", model.DepositStatusPending, model.DepositStatusReclaimed, PathSidecar, nil},
		{"sidecar reclaims confirmed", model.DepositStatusConfirmed, model.DepositStatusReclaimed, PathSidecar, nil},
		{"sidecar reclaims accepted", model.DepositStatusAccepted, model.DepositStatusReclaimed, PathSidecar, nil},
		{"signer accepts confirmed", model.DepositStatusConfirmed, model.DepositStatusAccepted, PathSigner, nil},
		{"signer fails accepted", model.DepositStatusAccepted, model.DepositStatusFailed, PathSigner, nil},

		{"same status is a no-op", model.DepositStatusPending, model.DepositStatusPending, PathSidecar, nil},
		{"same terminal status is a no-op", model.DepositStatusFailed, model.DepositStatusFailed, PathSigner, nil},

		{"signer may not confirm", model.DepositStatusPending, model.DepositStatusConfirmed, PathSigner, ErrForbidden},
		{"signer may not reclaim", model.DepositStatusConfirmed, model.DepositStatusReclaimed, PathSigner, ErrForbidden},
		{"sidecar may not accept", model.DepositStatusConfirmed, model.DepositStatusAccepted, PathSidecar, ErrForbidden},
		{"sidecar may not fail", model.DepositStatusAccepted, model.DepositStatusFailed, PathSidecar, ErrForbidden},

		{"no skipping to accepted", model.DepositStatusPending, model.DepositStatusAccepted, PathSigner, ErrInvalidTransition},
		{"no failing before accepted", model.DepositStatusConfirmed, model.DepositStatusFailed, PathSigner, ErrInvalidTransition},
		{"no going back to pending", model.DepositStatusConfirmed, model.DepositStatusPending, PathSidecar, ErrForbidden},
		{"reclaimed is terminal", model.DepositStatusReclaimed, model.DepositStatusConfirmed, PathSidecar, ErrInvalidTransition},
		{"failed is terminal", model.DepositStatusFailed, model.DepositStatusReclaimed, PathSidecar, ErrInvalidTransition},

		{"unknown status", model.DepositStatusPending, model.DepositStatus("limbo"), PathSidecar, ErrInvalidTransition},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.current, tt.requested, tt.path)
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestTransitionErrorMessage(t *testing.T) {
	err := ValidateTransition(model.DepositStatusReclaimed, model.DepositStatusConfirmed, PathSidecar)

	var transitionErr *InvalidTransitionError
	assert.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, model.DepositStatusReclaimed, transitionErr.Current)
	assert.Equal(t, model.DepositStatusConfirmed, transitionErr.Requested)
	assert.Contains(t, err.Error(), "reclaimed")
	assert.Contains(t, err.Error(), "confirmed")
}
