package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yieldlabs-io/yield-ledger/internal/db/model"
)

func (db *Database) UpsertHolder(ctx context.Context, doc *model.HolderDocument) error {
	filter := bson.M{"_id": doc.Address}
	update := bson.M{
		"$set": bson.M{
			"balance":                      doc.Balance,
			"balance_seconds":              doc.BalanceSeconds,
			"yield_accrued":                doc.YieldAccrued,
			"yield_withdrawn":              doc.YieldWithdrawn,
			"last_balance_timestamp":       doc.LastBalanceTimestamp,
			"last_settled_balance_seconds": doc.LastSettledBalanceSeconds,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.HoldersCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

func (db *Database) GetHolder(ctx context.Context, address string) (*model.HolderDocument, error) {
	filter := bson.M{"_id": address}

	var doc model.HolderDocument
	err := db.collection(model.HoldersCollection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     address,
				Message: "holder not found",
			}
		}
		return nil, err
	}
	return &doc, nil
}

func (db *Database) GetAllHolders(ctx context.Context) ([]*model.HolderDocument, error) {
	cursor, err := db.collection(model.HoldersCollection).Find(ctx, bson.D{}, options.Find())
	if err != nil {
		return nil, fmt.Errorf("failed to query holders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*model.HolderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode holders: %w", err)
	}
	return docs, nil
}
