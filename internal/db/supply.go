package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yieldlabs-io/yield-ledger/internal/db/model"
)

func (db *Database) GetSupplyState(ctx context.Context) (*model.SupplyStateDocument, error) {
	filter := bson.M{"_id": model.SupplyStateID}

	var doc model.SupplyStateDocument
	err := db.collection(model.SupplyStateCollection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.SupplyStateID,
				Message: "supply state not found",
			}
		}
		return nil, err
	}
	return &doc, nil
}

func (db *Database) UpsertSupplyState(ctx context.Context, doc *model.SupplyStateDocument) error {
	filter := bson.M{"_id": model.SupplyStateID}
	update := bson.M{
		"$set": bson.M{
			"total_balance_seconds":  doc.TotalBalanceSeconds,
			"last_timestamp":         doc.LastTimestamp,
			"last_deposit_timestamp": doc.LastDepositTimestamp,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.SupplyStateCollection).UpdateOne(ctx, filter, update, opts)
	return err
}
