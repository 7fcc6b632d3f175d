package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "saves"

type recordDoc struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewStore(client *mongo.Client, database, collection string) (*Store, error) {
	if client == nil {
		return nil, errors.New("mongodb client is nil")
	}
	if collection == "" {
		collection = defaultCollectionName
	}
	return &Store{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc recordDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	switch {
	case err == nil:
		return doc.Value, true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

// PutBatch 用 BulkWrite 批量 upsert；单机 mongo 没有多文档事务，这里按有序批量写。
func (s *Store) PutBatch(ctx context.Context, records map[string][]byte) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(records))
	for k, v := range records {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": k}).
			SetReplacement(recordDoc{Key: k, Value: v, UpdatedAt: now}).
			SetUpsert(true))
	}
	_, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	return err
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}})
	return err
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	cur, err := s.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []string
	for cur.Next(ctx) {
		var doc struct {
			Key string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.Key)
	}
	return out, cur.Err()
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
