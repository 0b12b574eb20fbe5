package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
)

// Repository defines the interface for shipment audit storage.
type Repository interface {
	SaveShipment(ctx context.Context, audit models.ShipmentAudit) error
	RecentShipments(ctx context.Context, limit int64) ([]models.ShipmentAudit, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "shipments",
	}

	_, err = repo.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shipments index: %w", err)
	}

	return repo, nil
}

// SaveShipment stores the audit copy of a ledger write.
func (r *MongoDBRepository) SaveShipment(ctx context.Context, audit models.ShipmentAudit) error {
	if _, err := r.collection().InsertOne(ctx, audit); err != nil {
		return fmt.Errorf("failed to insert shipment audit: %w", err)
	}
	return nil
}

// RecentShipments returns the latest audits, newest first.
func (r *MongoDBRepository) RecentShipments(ctx context.Context, limit int64) ([]models.ShipmentAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipment audits: %w", err)
	}
	defer cursor.Close(ctx)

	audits := []models.ShipmentAudit{}
	if err := cursor.All(ctx, &audits); err != nil {
		return nil, fmt.Errorf("failed to decode shipment audits: %w", err)
	}
	return audits, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}
