//go:build integration

package source

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestMongo_Integration(t *testing.T) {
	uri := os.Getenv("PEERPLOT_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("PEERPLOT_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	src, err := NewMongo(ctx, MongoConfig{URI: uri, Database: "peerplot_test", Collection: "stats"})
	if err != nil {
		t.Fatalf("NewMongo error: %v", err)
	}
	defer src.Close(ctx)

	_ = src.coll.Drop(ctx)
	_, err = src.coll.InsertOne(ctx, bson.M{
		"question_id": "42",
		"matrix":      bson.M{"easy": 0.5, "hard": 0.1, "tricky": 0.2, "peer": 0.2},
		"freq": bson.M{
			"first_choice":  bson.M{"A": int32(3), "B": int32(1)},
			"second_choice": bson.M{"B": int32(2)},
		},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	q, err := src.Get(ctx, "42")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if q.Matrix.Easy != 0.5 || q.Freq.FirstChoice["A"] != 3 {
		t.Errorf("Get = %+v", q)
	}

	qs, err := src.List(ctx)
	if err != nil || len(qs) != 1 {
		t.Errorf("List = %d, %v", len(qs), err)
	}
}
