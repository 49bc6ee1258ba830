package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"PriceScanner/internal/domain"
	"PriceScanner/internal/ports"
)

// MongoRepository keeps a raw document trail of every scan, including rows
// without a resolved price, next to the relational history.
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ ports.DocumentSink = (*MongoRepository)(nil)

// NewMongoRepository connects to the given URI and pings the deployment so a
// bad URI fails at startup instead of mid-pipeline.
func NewMongoRepository(ctx context.Context, uri, database, collection string) (*MongoRepository, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// InsertObservations appends the batch as-is.
func (m *MongoRepository) InsertObservations(ctx context.Context, observations []domain.ProductObservation) error {
	if len(observations) == 0 {
		return nil
	}

	docs := make([]any, 0, len(observations))
	for _, obs := range observations {
		doc := bson.M{
			"produit":     obs.Name,
			"marque":      obs.Brand,
			"code_barre":  obs.Barcode,
			"prix":        obs.PriceText,
			"categorie":   obs.Category,
			"magasin":     obs.StoreName,
			"url_magasin": obs.StoreURL,
			"url_produit": obs.ProductURL,
			"source":      obs.Channel,
		}
		if obs.PriceValue != nil {
			doc["prix_num"] = *obs.PriceValue
		}
		docs = append(docs, doc)
	}

	if _, err := m.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert observations: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (m *MongoRepository) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}
