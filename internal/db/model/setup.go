package model

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yieldlabs-io/yield-ledger/internal/config"
)

var collections = []string{
	SupplyStateCollection,
	DepositRecordsCollection,
	HoldersCollection,
	IntermediariesCollection,
	OverallStatsCollection,
}

// Setup creates the ledger collections and indexes. It is idempotent and
// safe to run on every start.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	defer func() {
		_ = client.Disconnect(ctx)
	}()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	database := client.Database(cfg.DbName)
	existing, err := database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for _, name := range collections {
		if have[name] {
			continue
		}
		if err := database.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}

	// Beneficiary lookups aggregate attribution across intermediaries.
	indexes := database.Collection(IntermediariesCollection).Indexes()
	_, err = indexes.CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "beneficiary", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create beneficiary index: %w", err)
	}

	return nil
}
