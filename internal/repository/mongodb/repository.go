package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/perfdash/internal/domain/models"
)

// Repository defines the interface for summary archive storage.
type Repository interface {
	SaveSummary(ctx context.Context, snapshot models.SummarySnapshot) error
	RecentSummaries(ctx context.Context, limit int64) ([]SnapshotDocument, error)
}

// SnapshotDocument is the stored form of a posted summary. Money is kept as
// float64 because BSON has no native decimal mapping for decimal.Decimal.
type SnapshotDocument struct {
	Date          string            `bson:"date" json:"date"`
	Channel       string            `bson:"channel" json:"channel"`
	Message       string            `bson:"message" json:"message"`
	Spend         float64           `bson:"spend" json:"spend"`
	Revenue       float64           `bson:"revenue" json:"revenue"`
	Margin        float64           `bson:"margin" json:"margin"`
	ROI           float64           `bson:"roi" json:"roi"`
	SpendChange   float64           `bson:"spend_change" json:"spendChange"`
	RevenueChange float64           `bson:"revenue_change" json:"revenueChange"`
	MarginChange  float64           `bson:"margin_change" json:"marginChange"`
	Balance       float64           `bson:"current_balance" json:"currentBalance"`
	TopNetworks   []NetworkDocument `bson:"top_networks" json:"topNetworks"`
	Warnings      []string          `bson:"warnings,omitempty" json:"warnings,omitempty"`
	CreatedAt     time.Time         `bson:"created_at" json:"createdAt"`
}

// NetworkDocument is one row of the top networks table.
type NetworkDocument struct {
	Network string  `bson:"network" json:"network"`
	Spend   float64 `bson:"spend" json:"spend"`
	Revenue float64 `bson:"revenue" json:"revenue"`
	Margin  float64 `bson:"margin" json:"margin"`
	ROI     float64 `bson:"roi" json:"roi"`
}

// NewSnapshotDocument flattens a snapshot for storage.
func NewSnapshotDocument(s models.SummarySnapshot) SnapshotDocument {
	sum := s.Summary
	doc := SnapshotDocument{
		Date:          sum.Date.Key(),
		Channel:       s.Channel,
		Message:       s.Message,
		Spend:         sum.Totals.Spend.InexactFloat64(),
		Revenue:       sum.Totals.Revenue.InexactFloat64(),
		Margin:        sum.Totals.Margin.InexactFloat64(),
		ROI:           sum.Totals.ROI,
		SpendChange:   sum.SpendChange,
		RevenueChange: sum.RevenueChange,
		MarginChange:  sum.MarginChange,
		Balance:       sum.CurrentBalance.InexactFloat64(),
		Warnings:      sum.Warnings,
		CreatedAt:     s.CreatedAt,
	}
	for _, n := range sum.TopNetworks {
		doc.TopNetworks = append(doc.TopNetworks, NetworkDocument{
			Network: n.Key,
			Spend:   n.Spend.InexactFloat64(),
			Revenue: n.Revenue.InexactFloat64(),
			Margin:  n.Margin.InexactFloat64(),
			ROI:     n.ROI,
		})
	}
	return doc
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

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "summary_snapshots",
	}, nil
}

// SaveSummary archives a summary that was posted to Slack.
func (r *MongoDBRepository) SaveSummary(ctx context.Context, snapshot models.SummarySnapshot) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	if _, err := collection.InsertOne(ctx, NewSnapshotDocument(snapshot)); err != nil {
		return fmt.Errorf("failed to insert summary snapshot: %w", err)
	}
	return nil
}

// RecentSummaries returns the newest archived snapshots first.
func (r *MongoDBRepository) RecentSummaries(ctx context.Context, limit int64) ([]SnapshotDocument, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cur, err := collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary snapshots: %w", err)
	}
	defer cur.Close(ctx)

	var out []SnapshotDocument
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode summary snapshots: %w", err)
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
