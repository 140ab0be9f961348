package db

import (
	"context"
	"time"

	"github.com/yieldlabs-io/yield-ledger/internal/db/model"
	"github.com/yieldlabs-io/yield-ledger/internal/observability/metrics"
)

// DbWithMetrics decorates a DbInterface with per-method latency metrics.
type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) GetSupplyState(ctx context.Context) (result *model.SupplyStateDocument, err error) {
	//nolint:errcheck
	d.run("GetSupplyState", func() error {
		result, err = d.db.GetSupplyState(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertSupplyState(ctx context.Context, doc *model.SupplyStateDocument) error {
	return d.run("UpsertSupplyState", func() error {
		return d.db.UpsertSupplyState(ctx, doc)
	})
}

func (d *DbWithMetrics) UpsertDepositRecord(ctx context.Context, doc *model.DepositRecordDocument) error {
	return d.run("UpsertDepositRecord", func() error {
		return d.db.UpsertDepositRecord(ctx, doc)
	})
}

func (d *DbWithMetrics) GetDepositRecord(ctx context.Context, timestamp int64) (result *model.DepositRecordDocument, err error) {
	//nolint:errcheck
	d.run("GetDepositRecord", func() error {
		result, err = d.db.GetDepositRecord(ctx, timestamp)
		return err
	})
	return
}

func (d *DbWithMetrics) GetAllDepositRecords(ctx context.Context) (result []*model.DepositRecordDocument, err error) {
	//nolint:errcheck
	d.run("GetAllDepositRecords", func() error {
		result, err = d.db.GetAllDepositRecords(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertHolder(ctx context.Context, doc *model.HolderDocument) error {
	return d.run("UpsertHolder", func() error {
		return d.db.UpsertHolder(ctx, doc)
	})
}

func (d *DbWithMetrics) GetHolder(ctx context.Context, address string) (result *model.HolderDocument, err error) {
	//nolint:errcheck
	d.run("GetHolder", func() error {
		result, err = d.db.GetHolder(ctx, address)
		return err
	})
	return
}

func (d *DbWithMetrics) GetAllHolders(ctx context.Context) (result []*model.HolderDocument, err error) {
	//nolint:errcheck
	d.run("GetAllHolders", func() error {
		result, err = d.db.GetAllHolders(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertIntermediary(ctx context.Context, doc *model.IntermediaryDocument) error {
	return d.run("UpsertIntermediary", func() error {
		return d.db.UpsertIntermediary(ctx, doc)
	})
}

func (d *DbWithMetrics) DeleteIntermediary(ctx context.Context, address string) error {
	return d.run("DeleteIntermediary", func() error {
		return d.db.DeleteIntermediary(ctx, address)
	})
}

func (d *DbWithMetrics) GetIntermediary(ctx context.Context, address string) (result *model.IntermediaryDocument, err error) {
	//nolint:errcheck
	d.run("GetIntermediary", func() error {
		result, err = d.db.GetIntermediary(ctx, address)
		return err
	})
	return
}

func (d *DbWithMetrics) GetAllIntermediaries(ctx context.Context) (result []*model.IntermediaryDocument, err error) {
	//nolint:errcheck
	d.run("GetAllIntermediaries", func() error {
		result, err = d.db.GetAllIntermediaries(ctx)
		return err
	})
	return
}

func (d *DbWithMetrics) UpsertOverallStats(ctx context.Context, doc *model.OverallStatsDocument) error {
	return d.run("UpsertOverallStats", func() error {
		return d.db.UpsertOverallStats(ctx, doc)
	})
}

func (d *DbWithMetrics) GetOverallStats(ctx context.Context) (result *model.OverallStatsDocument, err error) {
	//nolint:errcheck
	d.run("GetOverallStats", func() error {
		result, err = d.db.GetOverallStats(ctx)
		return err
	})
	return
}

// run executes a db method recording its latency and outcome.
func (d *DbWithMetrics) run(method string, f func() error) error {
	start := time.Now()
	err := f()
	metrics.RecordDbLatency(time.Since(start), method, err != nil)
	return err
}

var _ DbInterface = (*DbWithMetrics)(nil)
