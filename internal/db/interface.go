package db

import (
	"context"

	"github.com/yieldlabs-io/yield-ledger/internal/db/model"
)

type DbInterface interface {
	Ping(ctx context.Context) error

	GetSupplyState(ctx context.Context) (*model.SupplyStateDocument, error)
	UpsertSupplyState(ctx context.Context, doc *model.SupplyStateDocument) error

	UpsertDepositRecord(ctx context.Context, doc *model.DepositRecordDocument) error
	GetDepositRecord(ctx context.Context, timestamp int64) (*model.DepositRecordDocument, error)
	GetAllDepositRecords(ctx context.Context) ([]*model.DepositRecordDocument, error)

	UpsertHolder(ctx context.Context, doc *model.HolderDocument) error
	GetHolder(ctx context.Context, address string) (*model.HolderDocument, error)
	GetAllHolders(ctx context.Context) ([]*model.HolderDocument, error)

	UpsertIntermediary(ctx context.Context, doc *model.IntermediaryDocument) error
	DeleteIntermediary(ctx context.Context, address string) error
	GetIntermediary(ctx context.Context, address string) (*model.IntermediaryDocument, error)
	GetAllIntermediaries(ctx context.Context) ([]*model.IntermediaryDocument, error)

	UpsertOverallStats(ctx context.Context, doc *model.OverallStatsDocument) error
	GetOverallStats(ctx context.Context) (*model.OverallStatsDocument, error)
}
