package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yieldlabs-io/yield-ledger/internal/db/model"
)

// UpsertDepositRecord writes a deposit record. Upsert rather than insert:
// same-second deposits coalesce into the newest record, which is amended
// in place until a later record supersedes it.
func (db *Database) UpsertDepositRecord(ctx context.Context, doc *model.DepositRecordDocument) error {
	filter := bson.M{"_id": doc.Timestamp}
	update := bson.M{
		"$set": bson.M{
			"amount":          doc.Amount,
			"supply_snapshot": doc.SupplySnapshot,
			"prev_timestamp":  doc.PrevTimestamp,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.DepositRecordsCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

func (db *Database) GetDepositRecord(ctx context.Context, timestamp int64) (*model.DepositRecordDocument, error) {
	filter := bson.M{"_id": timestamp}

	var doc model.DepositRecordDocument
	err := db.collection(model.DepositRecordsCollection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     strconv.FormatInt(timestamp, 10),
				Message: "deposit record not found",
			}
		}
		return nil, err
	}
	return &doc, nil
}

// GetAllDepositRecords streams the full deposit chain, oldest first. The
// chain is never pruned, so this is only used at bootstrap.
func (db *Database) GetAllDepositRecords(ctx context.Context) ([]*model.DepositRecordDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := db.collection(model.DepositRecordsCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query deposit records: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*model.DepositRecordDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode deposit records: %w", err)
	}
	return docs, nil
}
