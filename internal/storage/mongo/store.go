// Package mongo is the MongoDB-backed DocumentStore.
package mongo

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

	"estate_api/internal/adapters/observability"
	"estate_api/internal/domain"
)

type Store struct {
	client    *mongo.Client
	db        *mongo.Database
	opTimeout time.Duration
}

// Connect dials uri and verifies the connection with a ping.
func Connect(ctx context.Context, uri, dbName string, opTimeout time.Duration) (*Store, error) {
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(5 * time.Second)
	cl, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	s := New(cl, dbName, opTimeout)
	if err := s.Ping(ctx); err != nil {
		_ = cl.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func New(cl *mongo.Client, dbName string, opTimeout time.Duration) *Store {
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}
	return &Store{client: cl, db: cl.Database(dbName), opTimeout: opTimeout}
}

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

// EnsureIndexes creates the partial unique index backing InsertIfAbsent for
// seeded properties.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	_, err := s.db.Collection(domain.CollectionProperty).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: domain.FieldSampleKey, Value: 1}},
		Options: options.Index().
			SetName("uniq_sample_key").
			SetUnique(true).
			SetPartialFilterExpression(bson.D{{Key: domain.FieldSampleKey, Value: bson.D{{Key: "$exists", Value: true}}}}),
	})
	return err
}

func (s *Store) CreateDocument(ctx context.Context, collection string, record any) (id string, err error) {
	start := time.Now()
	defer func() { observability.ObserveStore(collection, "insert", err, time.Since(start)) }()

	doc, err := toDocument(record)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}
	// assign the id up front so a retried insert cannot create a second copy
	oid := primitive.NewObjectID()
	doc[domain.FieldStoreID] = oid
	stamp(doc)

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	attempt := 0
	err = retryOnce(ctx, isTransient, func(ctx context.Context) error {
		attempt++
		_, ierr := s.db.Collection(collection).InsertOne(ctx, doc)
		if ierr != nil && attempt > 1 && mongo.IsDuplicateKeyError(ierr) {
			return nil // first attempt landed
		}
		return ierr
	})
	if err != nil {
		return "", err
	}
	return oid.Hex(), nil
}

func (s *Store) GetDocuments(ctx context.Context, collection string, filter domain.Expr, limit int) (out []domain.Document, err error) {
	start := time.Now()
	defer func() { observability.ObserveStore(collection, "find", err, time.Since(start)) }()

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	q := Translate(filter)

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	var raw []bson.M
	err = retryOnce(ctx, isTransient, func(ctx context.Context) error {
		cur, ferr := s.db.Collection(collection).Find(ctx, q, opts)
		if ferr != nil {
			return ferr
		}
		raw = raw[:0]
		return cur.All(ctx, &raw)
	})
	if err != nil {
		return nil, err
	}
	out = make([]domain.Document, 0, len(raw))
	for _, m := range raw {
		if oid, ok := m[domain.FieldStoreID].(primitive.ObjectID); ok {
			m[domain.FieldStoreID] = oid.Hex()
		}
		out = append(out, domain.Document(m))
	}
	return out, nil
}

func (s *Store) InsertIfAbsent(ctx context.Context, collection, keyField, keyValue string, record any) (inserted bool, err error) {
	start := time.Now()
	defer func() { observability.ObserveStore(collection, "upsert", err, time.Since(start)) }()

	doc, err := toDocument(record)
	if err != nil {
		return false, fmt.Errorf("encode %s document: %w", collection, err)
	}
	// the key comes from the filter on insert
	delete(doc, keyField)
	stamp(doc)

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	err = retryOnce(ctx, isTransient, func(ctx context.Context) error {
		res, uerr := s.db.Collection(collection).UpdateOne(ctx,
			bson.D{{Key: keyField, Value: keyValue}},
			bson.D{{Key: "$setOnInsert", Value: doc}},
			options.Update().SetUpsert(true),
		)
		if uerr != nil {
			return uerr
		}
		inserted = res.UpsertedCount > 0
		return nil
	})
	if mongo.IsDuplicateKeyError(err) {
		// a concurrent upsert won the unique index
		return false, nil
	}
	return inserted, err
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Name() string { return s.db.Name() }

func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.db.ListCollectionNames(ctx, bson.D{})
}

func toDocument(record any) (bson.M, error) {
	if record == nil {
		return nil, errors.New("nil record")
	}
	raw, err := bson.Marshal(record)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func stamp(doc bson.M) {
	now := time.Now().UTC()
	doc["created_at"] = now
	doc["updated_at"] = now
}
