package source

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/peerplot/pkg/errors"
	"github.com/matzehuels/peerplot/pkg/stats"
)

// Defaults for [MongoConfig].
const (
	DefaultMongoDatabase   = "peerinstruction"
	DefaultMongoCollection = "question_stats"
	DefaultMongoTimeout    = 10 * time.Second
)

// MongoConfig configures a [Mongo] source.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// Mongo reads questions from a MongoDB collection. Documents are shaped like
// the JSON format, with the id under "question_id":
//
//	{question_id: "42", title: "...", matrix: {easy: 0.2, ...},
//	 freq: {first_choice: {A: 12, ...}, second_choice: {...}}}
type Mongo struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongo connects and pings the primary.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultMongoTimeout
	}

	opts := options.Client().ApplyURI(cfg.URI).SetConnectTimeout(cfg.Timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}

	return &Mongo{
		client:  client,
		coll:    client.Database(cfg.Database).Collection(cfg.Collection),
		timeout: cfg.Timeout,
	}, nil
}

// Name returns "mongo".
func (m *Mongo) Name() string { return "mongo" }

// List returns every question in the collection, sorted by id.
func (m *Mongo) List(ctx context.Context) ([]stats.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "question_id", Value: 1}})
	cur, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, m.wrap(err, "find questions")
	}
	var qs []stats.Question
	if err := cur.All(ctx, &qs); err != nil {
		return nil, m.wrap(err, "decode questions")
	}
	return qs, nil
}

// Get returns the question with the given id.
func (m *Mongo) Get(ctx context.Context, id string) (stats.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var q stats.Question
	err := m.coll.FindOne(ctx, bson.D{{Key: "question_id", Value: id}}).Decode(&q)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return stats.Question{}, errors.New(errors.ErrCodeNotFound, "question %q not found", id)
	}
	if err != nil {
		return stats.Question{}, m.wrap(err, "find question %s", id)
	}
	return q, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) wrap(err error, format string, args ...any) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, format, args...)
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, format, args...)
}

var _ Source = (*Mongo)(nil)
