package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"market-thrifty/internal/domain"
	"market-thrifty/internal/repo"
)

// Sweeper 离线补偿：付款已入库但 booking/listing 仍未标记 paid 的，重新执行标记
type Sweeper struct {
	store *repo.Store
	batch int
	log   *zap.Logger
}

func NewSweeper(store *repo.Store, batch int, l *zap.Logger) *Sweeper {
	if batch <= 0 {
		batch = 100
	}
	return &Sweeper{store: store, batch: batch, log: l}
}

func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	pending, err := s.store.Payments.ListUnreconciled(ctx, s.batch)
	if err != nil {
		return 0, err
	}
	repaired := 0
	var errs []error
	for _, p := range pending {
		if err := s.repair(ctx, p); err != nil {
			s.log.Error("sweep repair failed", zap.String("payment_id", p.ID), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		repaired++
		s.log.Info("sweep repaired payment",
			zap.String("payment_id", p.ID),
			zap.String("booking_id", p.BookingID),
			zap.String("listing_id", p.ProductID),
		)
	}
	sweepRepaired.Add(float64(repaired))
	return repaired, errors.Join(errs...)
}

func (s *Sweeper) repair(ctx context.Context, p domain.Payment) error {
	return s.store.Transaction(ctx, func(tx *repo.Store) error {
		if _, err := tx.Listings.MarkPaid(ctx, p.ProductID); err != nil {
			return err
		}
		_, err := tx.Bookings.MarkPaid(ctx, p.BookingID, p.TransactionID)
		return err
	})
}

// Run 按固定间隔执行，ctx 取消即退出
func (s *Sweeper) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.Sweep(ctx)
			if err != nil && ctx.Err() == nil {
				s.log.Warn("sweep finished with errors", zap.Int("repaired", n), zap.Error(err))
			} else if n > 0 {
				s.log.Info("sweep finished", zap.Int("repaired", n))
			}
		}
	}
}
