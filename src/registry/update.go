package registry

import (
	"context"
	"errors"
	"sync"

	"github.com/sbtc-bridge/registry/src/store"
	"github.com/sbtc-bridge/registry/src/utils/model"
	"github.com/sbtc-bridge/registry/src/utils/task"

	"github.com/cenkalti/backoff/v4"
)

// UpdateViaSidecar applies a batch of chain-observation updates.
// Items are independent, a failing item never aborts its siblings.
func (self *Registry) UpdateViaSidecar(ctx context.Context, batch []UpdateDepositRequest) []UpdateResult {
	return self.update(ctx, PathSidecar, batch)
}

// UpdateViaSigner applies a batch of peg-attestation updates.
func (self *Registry) UpdateViaSigner(ctx context.Context, batch []UpdateDepositRequest) []UpdateResult {
	return self.update(ctx, PathSigner, batch)
}

func (self *Registry) update(ctx context.Context, path UpdatePath, batch []UpdateDepositRequest) []UpdateResult {
	results := make([]UpdateResult, len(batch))

	var wg sync.WaitGroup
	for i := range batch {
		i := i
		wg.Add(1)
		self.Workers.Submit(func() {
			defer wg.Done()
			results[i] = self.updateOne(ctx, path, &batch[i])
		})
	}
	wg.Wait()

	return results
}

func (self *Registry) updateOne(ctx context.Context, path UpdatePath, req *UpdateDepositRequest) (result UpdateResult) {
	result.BitcoinTxid = req.BitcoinTxid
	result.BitcoinTxOutputIndex = req.BitcoinTxOutputIndex

	key := model.DepositKey{
		BitcoinTxid:          normalizeTxid(req.BitcoinTxid),
		BitcoinTxOutputIndex: req.BitcoinTxOutputIndex,
	}
	mutation := &Mutation{
		Path:          path,
		Status:        req.Status,
		StatusMessage: req.StatusMessage,
		Sidecar:       req.Sidecar,
		Signer:        req.Signer,
	}

	// Conflicts mean another writer won the race, re-read and retry.
	// Transient store errors use the same backoff.
	err := task.NewRetry().
		WithContext(ctx).
		WithMaxElapsedTime(self.Config.Registry.UpdateMaxElapsedTime).
		WithMaxInterval(self.Config.Registry.UpdateMaxInterval).
		WithOnError(func(err error) {
			if errors.Is(err, ErrConflict) {
				self.monitor.Report.Registry.Errors.VersionConflicts.Inc()
			}
			self.Log.WithError(err).WithField("deposit", key.String()).Warn("Retrying deposit update")
		}).
		Run(func() error {
			current, err := self.store.Get(ctx, key)
			if err != nil {
				return permanentUnlessRetryable(err)
			}

			result.Deposit, err = self.arbiter.Apply(ctx, key, current.Version, mutation)
			if err != nil {
				return permanentUnlessRetryable(err)
			}
			return nil
		})
	if err != nil {
		result.Deposit = nil
		result.Err = err
		self.countUpdateError(err)
		return
	}

	if path == PathSidecar {
		self.monitor.Report.Registry.State.SidecarUpdatesApplied.Inc()
	} else {
		self.monitor.Report.Registry.State.SignerUpdatesApplied.Inc()
	}
	return
}

func permanentUnlessRetryable(err error) error {
	if errors.Is(err, store.ErrConflict) || errors.Is(err, store.ErrTransient) {
		return err
	}
	return backoff.Permanent(err)
}

func (self *Registry) countUpdateError(err error) {
	switch {
	case errors.Is(err, ErrInvalidTransition):
		self.monitor.Report.Registry.Errors.InvalidTransitions.Inc()
	case errors.Is(err, ErrForbidden):
		self.monitor.Report.Registry.Errors.ForbiddenUpdates.Inc()
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		// Already visible to the caller through the per-item result
	default:
		self.monitor.Report.Registry.Errors.DbErrors.Inc()
	}
}
