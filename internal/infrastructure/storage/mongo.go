package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"histomap/internal/domain"
	"histomap/internal/ports"
)

const mongoOpTimeout = 10 * time.Second

// MongoStore keeps the event cache in MongoDB for server deployments.
type MongoStore struct {
	client     *mongo.Client
	events     *mongo.Collection
	rejections *mongo.Collection
}

var _ ports.EventStore = (*MongoStore)(nil)

type eventDoc struct {
	ID             int     `bson:"_id"`
	Title          string  `bson:"title"`
	Description    string  `bson:"description"`
	Latitude       float64 `bson:"latitude"`
	Longitude      float64 `bson:"longitude"`
	Year           *int    `bson:"year,omitempty"`
	Category       string  `bson:"category"`
	Score          int     `bson:"score"`
	Notoriety      int     `bson:"notoriety"`
	Incontournable bool    `bson:"incontournable"`
}

type rejectionDoc struct {
	ID     int    `bson:"_id"`
	Reason string `bson:"reason"`
}

// NewMongoStore connects and prepares the collections.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		client:     client,
		events:     db.Collection("events"),
		rejections: db.Collection("rejections"),
	}, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// SaveEvent upserts an accepted event keyed by article id.
func (s *MongoStore) SaveEvent(ctx context.Context, event domain.ClassifiedEvent) error {
	doc := eventDoc{
		ID:             event.ID,
		Title:          event.Title,
		Description:    event.Description,
		Latitude:       event.Latitude,
		Longitude:      event.Longitude,
		Year:           event.Year,
		Category:       string(event.Category),
		Score:          event.Score,
		Notoriety:      event.NotorietyScore,
		Incontournable: event.IsIncontournable,
	}

	_, err := s.events.ReplaceOne(ctx, bson.M{"_id": event.ID}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert event %d: %w", event.ID, err)
	}
	return nil
}

// SaveRejection upserts a tombstone.
func (s *MongoStore) SaveRejection(ctx context.Context, articleID int, reason string) error {
	_, err := s.rejections.ReplaceOne(ctx, bson.M{"_id": articleID},
		rejectionDoc{ID: articleID, Reason: reason},
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert rejection %d: %w", articleID, err)
	}
	return nil
}

// LoadAll streams back every event and rejected id.
func (s *MongoStore) LoadAll(ctx context.Context) ([]domain.ClassifiedEvent, []int, error) {
	cursor, err := s.events.Find(ctx, bson.M{})
	if err != nil {
		return nil, nil, fmt.Errorf("find events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []domain.ClassifiedEvent
	for cursor.Next(ctx) {
		var doc eventDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, domain.ClassifiedEvent{
			ID:               doc.ID,
			Title:            doc.Title,
			Description:      doc.Description,
			Latitude:         doc.Latitude,
			Longitude:        doc.Longitude,
			Year:             doc.Year,
			Category:         domain.Category(doc.Category),
			Score:            doc.Score,
			NotorietyScore:   doc.Notoriety,
			IsIncontournable: doc.Incontournable,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, nil, fmt.Errorf("events cursor: %w", err)
	}

	rejCursor, err := s.rejections.Find(ctx, bson.M{})
	if err != nil {
		return nil, nil, fmt.Errorf("find rejections: %w", err)
	}
	defer rejCursor.Close(ctx)

	var rejected []int
	for rejCursor.Next(ctx) {
		var doc rejectionDoc
		if err := rejCursor.Decode(&doc); err != nil {
			return nil, nil, fmt.Errorf("decode rejection: %w", err)
		}
		rejected = append(rejected, doc.ID)
	}
	if err := rejCursor.Err(); err != nil {
		return nil, nil, fmt.Errorf("rejections cursor: %w", err)
	}

	return events, rejected, nil
}
