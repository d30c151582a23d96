package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/ledger"
	"github.com/mamadbah2/warehouse/internal/repository"
)

// ledgerDocument is one stored ledger, keyed by its name.
type ledgerDocument struct {
	Name      string              `bson:"_id"`
	Products  []ledger.ProductDoc `bson:"products"`
	UpdatedAt time.Time           `bson:"updated_at"`
}

// MongoDBRepository implements repository.Store for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	name     string
	logger   *zap.Logger
}

// NewMongoDBRepository connects to MongoDB and returns a store for the ledger
// saved under name.
func NewMongoDBRepository(ctx context.Context, uri, dbName, name string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: connect to mongodb: %w", repository.ErrIO, err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: ping mongodb: %w", repository.ErrIO, err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "ledgers",
		name:     name,
		logger:   logger,
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// Load fetches the ledger document.
func (r *MongoDBRepository) Load(ctx context.Context) (ledger.Document, error) {
	raw, err := r.collection().FindOne(ctx, bson.M{"_id": r.name}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ledger.Document{}, repository.ErrNotFound
	}
	if err != nil {
		return ledger.Document{}, fmt.Errorf("%w: find ledger %q: %w", repository.ErrIO, r.name, err)
	}

	var stored ledgerDocument
	if err := bson.Unmarshal(raw, &stored); err != nil {
		return ledger.Document{}, fmt.Errorf("%w: decode ledger %q: %v", ledger.ErrMalformedState, r.name, err)
	}

	r.logger.Debug("ledger loaded", zap.String("name", r.name), zap.Time("updated_at", stored.UpdatedAt))
	return ledger.Document{Products: stored.Products}, nil
}

// Save replaces the stored ledger document, creating it when absent.
func (r *MongoDBRepository) Save(ctx context.Context, doc ledger.Document) error {
	stored := ledgerDocument{
		Name:      r.name,
		Products:  doc.Products,
		UpdatedAt: time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection().ReplaceOne(ctx, bson.M{"_id": r.name}, stored, opts); err != nil {
		return fmt.Errorf("%w: replace ledger %q: %w", repository.ErrIO, r.name, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
