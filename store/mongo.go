package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements Store on top of a MongoDB database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and returns a Mongo store bound to dbName.
func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Mongo{client: client, db: client.Database(dbName)}, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) col(name string) *mongo.Collection {
	return m.db.Collection(name)
}

func (m *Mongo) Get(ctx context.Context, col, id string, out any) error {
	err := m.col(col).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (m *Mongo) Query(ctx context.Context, col, field string, value, out any) error {
	cursor, err := m.col(col).Find(ctx, bson.M{field: value})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (m *Mongo) All(ctx context.Context, col string, out any) error {
	cursor, err := m.col(col).Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (m *Mongo) Create(ctx context.Context, col, id string, doc any) error {
	_, err := m.col(col).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrExists
	}
	return err
}

func (m *Mongo) Set(ctx context.Context, col, id string, doc any) error {
	_, err := m.col(col).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func (m *Mongo) Update(ctx context.Context, col, id string, fields map[string]any) error {
	res, err := m.col(col).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, col, id string) error {
	_, err := m.col(col).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (m *Mongo) AddToSet(ctx context.Context, col, id, field string, value, out any) error {
	return m.findOneAndUpdate(ctx, col,
		bson.M{"_id": id, field: bson.M{"$ne": value}},
		bson.M{"$addToSet": bson.M{field: value}},
		out,
	)
}

func (m *Mongo) Pull(ctx context.Context, col, id, field string, value, out any) error {
	return m.findOneAndUpdate(ctx, col,
		bson.M{"_id": id, field: value},
		bson.M{"$pull": bson.M{field: value}},
		out,
	)
}

func (m *Mongo) findOneAndUpdate(ctx context.Context, col string, filter, update bson.M, out any) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.col(col).FindOneAndUpdate(ctx, filter, update, opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoMatch
	}
	return err
}
