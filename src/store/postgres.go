package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sbtc-bridge/registry/src/utils/logger"
	"github.com/sbtc-bridge/registry/src/utils/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store backed by Postgres. Record and index rows are written in one
// database transaction, so commits are atomic without an outbox.
type Postgres struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewPostgres(db *gorm.DB) (self *Postgres) {
	self = new(Postgres)
	self.db = db
	self.log = logger.NewSublogger("store")
	return
}

func (self *Postgres) Get(ctx context.Context, key model.DepositKey) (deposit *model.Deposit, err error) {
	deposit = new(model.Deposit)
	err = self.db.WithContext(ctx).
		Where("bitcoin_txid = ? AND bitcoin_tx_output_index = ?", key.BitcoinTxid, key.BitcoinTxOutputIndex).
		First(deposit).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, self.mapError(ctx, err)
	}
	return
}

func (self *Postgres) Insert(ctx context.Context, deposit *model.Deposit, entries []model.DepositIndexEntry) (err error) {
	err = self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(deposit)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Key already taken
			return ErrConflict
		}

		if len(entries) > 0 {
			err = tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entries).Error
			if err != nil {
				return
			}
		}
		return
	})
	return self.mapError(ctx, err)
}

func (self *Postgres) Update(ctx context.Context, deposit *model.Deposit, expectedVersion uint64, delta Delta) (err error) {
	err = self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		// Conditional write, the version predicate is the CAS
		res := tx.Model(&model.Deposit{}).
			Where("bitcoin_txid = ? AND bitcoin_tx_output_index = ? AND version = ?",
				deposit.BitcoinTxid, deposit.BitcoinTxOutputIndex, expectedVersion).
			Select("*").
			Omit("bitcoin_txid", "bitcoin_tx_output_index", "created_at").
			Updates(deposit)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			err = tx.Model(&model.Deposit{}).
				Where("bitcoin_txid = ? AND bitcoin_tx_output_index = ?",
					deposit.BitcoinTxid, deposit.BitcoinTxOutputIndex).
				Count(&count).
				Error
			if err != nil {
				return
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrConflict
		}

		for _, entry := range delta.Delete {
			err = tx.
				Where("kind = ? AND index_key = ? AND ordering_key = ? AND bitcoin_txid = ? AND bitcoin_tx_output_index = ?",
					entry.Kind, entry.IndexKey, entry.OrderingKey, entry.BitcoinTxid, entry.BitcoinTxOutputIndex).
				Delete(&model.DepositIndexEntry{}).
				Error
			if err != nil {
				return
			}
		}

		if len(delta.Insert) > 0 {
			// Upsert keeps replays of the same delta idempotent
			err = tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&delta.Insert).Error
			if err != nil {
				return
			}
		}
		return
	})
	return self.mapError(ctx, err)
}

func (self *Postgres) Scan(ctx context.Context, kind model.IndexKind, indexKey string, after *Position, limit int) (entries []model.DepositIndexEntry, err error) {
	query := self.db.WithContext(ctx).
		Where("kind = ? AND index_key = ?", kind, indexKey)

	if after != nil {
		query = query.Where("(ordering_key, bitcoin_txid, bitcoin_tx_output_index) > (?, ?, ?)",
			after.OrderingKey, after.BitcoinTxid, after.BitcoinTxOutputIndex)
	}

	err = query.
		Order("ordering_key ASC, bitcoin_txid ASC, bitcoin_tx_output_index ASC").
		Limit(limit).
		Find(&entries).
		Error
	if err != nil {
		return nil, self.mapError(ctx, err)
	}
	return
}

func (self *Postgres) mapError(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTransient, err)
	default:
		self.log.WithError(err).Error("Database operation failed")
		return err
	}
}
