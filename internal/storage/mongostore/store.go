package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/proyectos-app/proyectos-backend/internal/storage/docstore"
)

type Options struct {
	URI       string
	Database  string
	ConnectTO time.Duration
	PingTO    time.Duration
}

// Store maps docstore collections onto MongoDB collections of one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ docstore.Store = (*Store)(nil)

// Open connects to MongoDB and fails fast if the server does not answer a ping.
func Open(ctx context.Context, opt Options) (*Store, error) {
	if opt.URI == "" {
		return nil, fmt.Errorf("MONGO_URI is not set")
	}
	if opt.Database == "" {
		return nil, fmt.Errorf("MONGO_DB is not set")
	}
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 10 * time.Second
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	clientOpts := options.Client().
		ApplyURI(opt.URI).
		SetConnectTimeout(opt.ConnectTO).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	client, err := mongo.Connect(cctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, opt.PingTO)
	defer pcancel()
	if err := client.Ping(pctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Store{client: client, db: client.Database(opt.Database)}, nil
}

func (s *Store) Insert(ctx context.Context, collection string, doc docstore.Document) (docstore.Document, error) {
	m := toBSON(doc.WithoutID())
	m[docstore.IDField] = primitive.NewObjectID()

	if _, err := s.db.Collection(collection).InsertOne(ctx, m); err != nil {
		return nil, fmt.Errorf("insert into %s: %w", collection, err)
	}
	return fromBSON(m), nil
}

func (s *Store) Find(ctx context.Context, collection string, q docstore.Query) ([]docstore.Document, error) {
	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(buildSort(q.Sort))
	}

	cur, err := s.db.Collection(collection).Find(ctx, buildFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	var rows []bson.M
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}

	out := make([]docstore.Document, 0, len(rows))
	for _, m := range rows {
		out = append(out, fromBSON(m))
	}
	return out, nil
}

func (s *Store) FindByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var m bson.M
	err = s.db.Collection(collection).FindOne(ctx, bson.M{docstore.IDField: oid}).Decode(&m)
	if err != nil {
		return nil, notFound(err)
	}
	return fromBSON(m), nil
}

func (s *Store) UpdateByID(ctx context.Context, collection, id string, set docstore.Document) (docstore.Document, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	fields := toBSON(set.WithoutID())
	if len(fields) == 0 {
		// $set rejects an empty document
		return s.FindByID(ctx, collection, id)
	}

	var m bson.M
	err = s.db.Collection(collection).FindOneAndUpdate(
		ctx,
		bson.M{docstore.IDField: oid},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		return nil, notFound(err)
	}
	return fromBSON(m), nil
}

func (s *Store) DeleteByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var m bson.M
	err = s.db.Collection(collection).FindOneAndDelete(ctx, bson.M{docstore.IDField: oid}).Decode(&m)
	if err != nil {
		return nil, notFound(err)
	}
	return fromBSON(m), nil
}

func (s *Store) PushByID(ctx context.Context, collection, id, field string, values []interface{}) (docstore.PushResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return docstore.PushResult{}, err
	}

	each := make(bson.A, 0, len(values))
	for _, v := range values {
		each = append(each, toBSONValue(v))
	}

	res, err := s.db.Collection(collection).UpdateOne(
		ctx,
		bson.M{docstore.IDField: oid},
		bson.M{"$push": bson.M{field: bson.M{"$each": each}}},
	)
	if err != nil {
		return docstore.PushResult{}, fmt.Errorf("push into %s.%s: %w", collection, field, err)
	}
	return docstore.PushResult{
		Matched:  res.MatchedCount > 0,
		Modified: res.ModifiedCount > 0,
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", docstore.ErrInvalidID, id)
	}
	return oid, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return docstore.ErrNotFound
	}
	return err
}
