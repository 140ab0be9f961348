package testutil

import (
	"context"

	"github.com/yieldlabs-io/yield-ledger/internal/db"
	"github.com/yieldlabs-io/yield-ledger/internal/db/model"
)

// InMemoryDb implements db.DbInterface over plain maps. Tests reach into
// the exported fields to assert on persisted documents.
type InMemoryDb struct {
	Supply         *model.SupplyStateDocument
	Deposits       map[int64]*model.DepositRecordDocument
	Holders        map[string]*model.HolderDocument
	Intermediaries map[string]*model.IntermediaryDocument
	Stats          *model.OverallStatsDocument
}

var _ db.DbInterface = (*InMemoryDb)(nil)

func NewInMemoryDb() *InMemoryDb {
	return &InMemoryDb{
		Deposits:       make(map[int64]*model.DepositRecordDocument),
		Holders:        make(map[string]*model.HolderDocument),
		Intermediaries: make(map[string]*model.IntermediaryDocument),
	}
}

func (f *InMemoryDb) Ping(context.Context) error { return nil }

func (f *InMemoryDb) GetSupplyState(context.Context) (*model.SupplyStateDocument, error) {
	if f.Supply == nil {
		return nil, &db.NotFoundError{Key: model.SupplyStateID, Message: "supply state not found"}
	}
	return f.Supply, nil
}

func (f *InMemoryDb) UpsertSupplyState(_ context.Context, doc *model.SupplyStateDocument) error {
	f.Supply = doc
	return nil
}

func (f *InMemoryDb) UpsertDepositRecord(_ context.Context, doc *model.DepositRecordDocument) error {
	f.Deposits[doc.Timestamp] = doc
	return nil
}

func (f *InMemoryDb) GetDepositRecord(_ context.Context, timestamp int64) (*model.DepositRecordDocument, error) {
	if doc, ok := f.Deposits[timestamp]; ok {
		return doc, nil
	}
	return nil, &db.NotFoundError{Message: "deposit record not found"}
}

func (f *InMemoryDb) GetAllDepositRecords(context.Context) ([]*model.DepositRecordDocument, error) {
	docs := make([]*model.DepositRecordDocument, 0, len(f.Deposits))
	for _, doc := range f.Deposits {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (f *InMemoryDb) UpsertHolder(_ context.Context, doc *model.HolderDocument) error {
	f.Holders[doc.Address] = doc
	return nil
}

func (f *InMemoryDb) GetHolder(_ context.Context, address string) (*model.HolderDocument, error) {
	if doc, ok := f.Holders[address]; ok {
		return doc, nil
	}
	return nil, &db.NotFoundError{Key: address, Message: "holder not found"}
}

func (f *InMemoryDb) GetAllHolders(context.Context) ([]*model.HolderDocument, error) {
	docs := make([]*model.HolderDocument, 0, len(f.Holders))
	for _, doc := range f.Holders {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (f *InMemoryDb) UpsertIntermediary(_ context.Context, doc *model.IntermediaryDocument) error {
	f.Intermediaries[doc.Address] = doc
	return nil
}

func (f *InMemoryDb) DeleteIntermediary(_ context.Context, address string) error {
	delete(f.Intermediaries, address)
	return nil
}

func (f *InMemoryDb) GetIntermediary(_ context.Context, address string) (*model.IntermediaryDocument, error) {
	if doc, ok := f.Intermediaries[address]; ok {
		return doc, nil
	}
	return nil, &db.NotFoundError{Key: address, Message: "intermediary not found"}
}

func (f *InMemoryDb) GetAllIntermediaries(context.Context) ([]*model.IntermediaryDocument, error) {
	docs := make([]*model.IntermediaryDocument, 0, len(f.Intermediaries))
	for _, doc := range f.Intermediaries {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (f *InMemoryDb) UpsertOverallStats(_ context.Context, doc *model.OverallStatsDocument) error {
	f.Stats = doc
	return nil
}

func (f *InMemoryDb) GetOverallStats(context.Context) (*model.OverallStatsDocument, error) {
	if f.Stats == nil {
		return nil, &db.NotFoundError{Key: model.OverallStatsID, Message: "overall stats not found"}
	}
	return f.Stats, nil
}
