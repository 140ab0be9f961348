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

func (db *Database) UpsertIntermediary(ctx context.Context, doc *model.IntermediaryDocument) error {
	filter := bson.M{"_id": doc.Address}
	update := bson.M{
		"$set": bson.M{
			"beneficiary": doc.Beneficiary,
			"pending":     doc.Pending,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.IntermediariesCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

func (db *Database) DeleteIntermediary(ctx context.Context, address string) error {
	filter := bson.M{"_id": address}

	res, err := db.collection(model.IntermediariesCollection).DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return &NotFoundError{
			Key:     address,
			Message: "intermediary not found",
		}
	}
	return nil
}

func (db *Database) GetIntermediary(ctx context.Context, address string) (*model.IntermediaryDocument, error) {
	filter := bson.M{"_id": address}

	var doc model.IntermediaryDocument
	err := db.collection(model.IntermediariesCollection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     address,
				Message: "intermediary not found",
			}
		}
		return nil, err
	}
	return &doc, nil
}

func (db *Database) GetAllIntermediaries(ctx context.Context) ([]*model.IntermediaryDocument, error) {
	cursor, err := db.collection(model.IntermediariesCollection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query intermediaries: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*model.IntermediaryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode intermediaries: %w", err)
	}
	return docs, nil
}
