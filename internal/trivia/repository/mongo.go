package repository

import (
	"context"
	"strings"
	"time"

	"github.com/arkdex/arkdex/backend/go-services/internal/trivia"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements a MongoDB-backed repository for trivia documents.
// Documents are keyed by a lowercased "nameKey" field so lookups are
// case-insensitive while the stored document keeps the wiki spelling.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	// ensure a unique index on nameKey: one document per operator
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "nameKey", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepo{col: col}
}

type mongoRecord struct {
	NameKey string `bson:"nameKey"`
	trivia.Record `bson:",inline"`
}

func (m *MongoRepo) Upsert(rec *trivia.Record) error {
	now := time.Now().UTC()
	rec.UpdatedAt = now
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	nameKey := strings.ToLower(rec.Document.Name)
	set := bson.M{
		"nameKey":    nameKey,
		"document":   rec.Document,
		"archiveKey": rec.ArchiveKey,
		"fetchedAt":  rec.FetchedAt,
		"updatedAt":  rec.UpdatedAt,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": rec.CreatedAt},
	}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(context.Background(), bson.M{"nameKey": nameKey}, update, opts)
	return err
}

func (m *MongoRepo) GetByName(name string) (*trivia.Record, error) {
	var r mongoRecord
	err := m.col.FindOne(context.Background(), bson.M{"nameKey": strings.ToLower(name)}).Decode(&r)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r.Record, nil
}

func (m *MongoRepo) List() ([]*trivia.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nameKey", Value: 1}})
	cur, err := m.col.Find(context.Background(), bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(context.Background())
	out := []*trivia.Record{}
	for cur.Next(context.Background()) {
		var r mongoRecord
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		rec := r.Record
		out = append(out, &rec)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Delete(name string) error {
	res, err := m.col.DeleteOne(context.Background(), bson.M{"nameKey": strings.ToLower(name)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
