package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/nodegraph/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "nodegraph"
	DefaultMongoCollection = "graphs"
)

// MongoStore keeps each document as a BSON sub-document so graphs can be
// queried in place, e.g. by node field values.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// record is the stored shape of one graph.
type record struct {
	ID        string    `bson:"_id"`
	Document  bson.Raw  `bson:"document"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to uri and pings the primary.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		uri = DefaultMongoURI
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeIO, err, "ping mongo")
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func idFilter(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

// toRecord converts a JSON document into its stored form.
func toRecord(id string, data []byte, now time.Time) (record, error) {
	var doc bson.Raw
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return record{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "convert %s to bson", id)
	}
	return record{ID: id, Document: doc, UpdatedAt: now.UTC()}, nil
}

// fromRecord converts a stored document back to relaxed JSON.
func fromRecord(r record) ([]byte, error) {
	data, err := bson.MarshalExtJSON(r.Document, false, false)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "convert %s to json", r.ID)
	}
	return data, nil
}

func (s *MongoStore) Put(ctx context.Context, id string, data []byte) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	rec, err := toRecord(id, data, time.Now())
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, idFilter(id), rec, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "mongo put %s", id)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) ([]byte, error) {
	var rec record
	err := s.coll.FindOne(ctx, idFilter(id)).Decode(&rec)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "mongo get %s", id)
	}
	return fromRecord(rec)
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 1}}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "mongo list")
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "mongo list")
		}
		ids = append(ids, row.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "mongo list")
	}
	return ids, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "mongo delete %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
