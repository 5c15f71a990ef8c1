package registry

import (
	"context"
	"errors"
	"time"

	"github.com/sbtc-bridge/registry/src/store"
	"github.com/sbtc-bridge/registry/src/utils/config"
	"github.com/sbtc-bridge/registry/src/utils/model"
	"github.com/sbtc-bridge/registry/src/utils/monitor"
	"github.com/sbtc-bridge/registry/src/utils/task"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lib/pq"
)

// Registry is the facade over the deposit record store: it composes
// the status model, index projector and concurrency arbiter into the
// create/get/list/update operations, and owns the optimistic retry
// loop around updates. Batch items run on the task's worker pool.
type Registry struct {
	*task.Task

	store   store.Store
	arbiter *Arbiter
	monitor *monitor.Monitor
}

func NewRegistry(config *config.Config) (self *Registry) {
	self = new(Registry)

	// The blocking subtask keeps the task alive until Stop, otherwise
	// the worker pool would be torn down right after Start
	self.Task = task.NewTask(config, "registry").
		WithWorkerPool(config.Registry.BatchNumWorkers).
		WithSubtaskFunc(self.run)

	return
}

func (self *Registry) run() (err error) {
	<-self.StopChannel
	return
}

func (self *Registry) WithStore(s store.Store) *Registry {
	self.store = s
	self.arbiter = NewArbiter(s)
	return self
}

func (self *Registry) WithMonitor(monitor *monitor.Monitor) *Registry {
	self.monitor = monitor
	return self
}

// Create registers a new deposit in Pending state with version 0.
// The record and its full index entry set are committed atomically.
func (self *Registry) Create(ctx context.Context, req *CreateDepositRequest) (*model.Deposit, error) {
	err := req.Validate()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	deposit := &model.Deposit{
		BitcoinTxid:          normalizeTxid(req.BitcoinTxid),
		BitcoinTxOutputIndex: req.BitcoinTxOutputIndex,
		Version:              0,
		Recipient:            req.Recipient,
		Amount:               req.Amount,
		MaxFee:               req.MaxFee,
		LockTime:             req.LockTime,
		DepositScript:        req.DepositScript,
		ReclaimScript:        req.ReclaimScript,
		ReclaimPubkeys:       pq.StringArray(req.ReclaimPubkeys),
		Status:               model.DepositStatusPending,
		CreatedAt:            now,
		LastUpdatedAt:        now,
	}

	entries, err := projectEntries(deposit)
	if err != nil {
		return nil, err
	}

	err = self.store.Insert(ctx, deposit, entries)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			self.monitor.Report.Registry.Errors.CreateConflicts.Inc()
		} else {
			self.monitor.Report.Registry.Errors.DbErrors.Inc()
		}
		return nil, err
	}

	self.monitor.Report.Registry.State.DepositsCreated.Inc()
	self.Log.WithField("deposit", deposit.Key().String()).Debug("Deposit created")
	return deposit, nil
}

func (self *Registry) Get(ctx context.Context, txid string, outputIndex uint32) (*model.Deposit, error) {
	key := model.DepositKey{
		BitcoinTxid:          normalizeTxid(txid),
		BitcoinTxOutputIndex: outputIndex,
	}
	return self.store.Get(ctx, key)
}

func (self *Registry) ListByStatus(ctx context.Context, status model.DepositStatus, nextToken string, pageSize int) (*Page, error) {
	if !status.IsValid() {
		return nil, &ValidationError{Field: "status", Reason: "unknown status: " + string(status)}
	}
	return self.list(ctx, model.IndexByStatus, string(status), nextToken, pageSize)
}

func (self *Registry) ListByRecipient(ctx context.Context, recipient string, nextToken string, pageSize int) (*Page, error) {
	if recipient == "" {
		return nil, &ValidationError{Field: "recipient", Reason: "must not be empty"}
	}
	return self.list(ctx, model.IndexByRecipient, recipient, nextToken, pageSize)
}

// ListByReclaimPubkeys is invariant to the caller-supplied ordering of
// the pubkey set.
func (self *Registry) ListByReclaimPubkeys(ctx context.Context, pubkeys []string, nextToken string, pageSize int) (*Page, error) {
	if len(pubkeys) == 0 {
		return nil, &ValidationError{Field: "reclaim_pubkeys", Reason: "must not be empty"}
	}
	return self.list(ctx, model.IndexByReclaimPubkeys, ReclaimPubkeysKey(pubkeys), nextToken, pageSize)
}

// ListByTransaction lists all deposits of one bitcoin transaction in
// output order. Unlike the other listings it serves full records, the
// index only supplies the keys and the page boundaries.
func (self *Registry) ListByTransaction(ctx context.Context, txid string, nextToken string, pageSize int) (*TransactionPage, error) {
	_, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, &ValidationError{Field: "bitcoin_txid", Reason: "not a valid transaction id"}
	}

	kind := model.IndexByTransaction
	indexKey := normalizeTxid(txid)
	limit := self.clampPageSize(pageSize)

	var after *store.Position
	if nextToken != "" {
		after, err = DecodeCursor(nextToken, kind, indexKey)
		if err != nil {
			self.monitor.Report.Registry.Errors.InvalidCursors.Inc()
			return nil, err
		}
	}

	entries, err := self.store.Scan(ctx, kind, indexKey, after, limit+1)
	if err != nil {
		self.monitor.Report.Registry.Errors.DbErrors.Inc()
		return nil, err
	}

	more := len(entries) > limit
	if more {
		entries = entries[:limit]
	}

	page := &TransactionPage{Items: make([]*model.Deposit, 0, len(entries))}
	for i := range entries {
		deposit, err := self.store.Get(ctx, entries[i].DepositKey())
		if err != nil {
			self.monitor.Report.Registry.Errors.DbErrors.Inc()
			return nil, err
		}
		page.Items = append(page.Items, deposit)
	}
	if more {
		page.NextToken = EncodeCursor(kind, indexKey, &entries[len(entries)-1])
	}

	self.monitor.Report.Registry.State.ListQueriesServed.Inc()
	return page, nil
}

func (self *Registry) list(ctx context.Context, kind model.IndexKind, indexKey string, nextToken string, pageSize int) (*Page, error) {
	limit := self.clampPageSize(pageSize)

	var after *store.Position
	if nextToken != "" {
		var err error
		after, err = DecodeCursor(nextToken, kind, indexKey)
		if err != nil {
			self.monitor.Report.Registry.Errors.InvalidCursors.Inc()
			return nil, err
		}
	}

	// One extra row tells us whether a next page may exist
	entries, err := self.store.Scan(ctx, kind, indexKey, after, limit+1)
	if err != nil {
		self.monitor.Report.Registry.Errors.DbErrors.Inc()
		return nil, err
	}

	more := len(entries) > limit
	if more {
		entries = entries[:limit]
	}

	page := &Page{Items: make([]DepositInfo, 0, len(entries))}
	for i := range entries {
		page.Items = append(page.Items, infoFromEntry(&entries[i]))
	}
	if more {
		page.NextToken = EncodeCursor(kind, indexKey, &entries[len(entries)-1])
	}

	self.monitor.Report.Registry.State.ListQueriesServed.Inc()
	return page, nil
}

func (self *Registry) clampPageSize(pageSize int) int {
	if pageSize <= 0 {
		return self.Config.Registry.DefaultPageSize
	}
	if pageSize > self.Config.Registry.MaxPageSize {
		return self.Config.Registry.MaxPageSize
	}
	return pageSize
}
