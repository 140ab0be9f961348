package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yieldlabs-io/yield-ledger/internal/db/model"
)

// UpsertOverallStats updates or inserts the ledger-wide totals.
func (db *Database) UpsertOverallStats(ctx context.Context, doc *model.OverallStatsDocument) error {
	filter := bson.M{"_id": model.OverallStatsID}
	update := bson.M{
		"$set": bson.M{
			"total_deposited": doc.TotalDeposited,
			"total_accrued":   doc.TotalAccrued,
			"total_withdrawn": doc.TotalWithdrawn,
			"holder_count":    doc.HolderCount,
			"last_updated":    time.Now().Unix(),
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.OverallStatsCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

func (db *Database) GetOverallStats(ctx context.Context) (*model.OverallStatsDocument, error) {
	filter := bson.M{"_id": model.OverallStatsID}

	var doc model.OverallStatsDocument
	err := db.collection(model.OverallStatsCollection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.OverallStatsID,
				Message: "overall stats not found",
			}
		}
		return nil, err
	}
	return &doc, nil
}
