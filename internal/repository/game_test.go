package repo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"checkers/internal/bootstrap"
)

func TestGenerateGameKey_MongoUnreachable(t *testing.T) {
	opts := options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(50 * time.Millisecond)
	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		t.Fatalf("mongo.Connect() error: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	cfg := bootstrap.Config{QueryTimeout: 20 * time.Millisecond}
	repository := NewGameRepository(cfg, zap.NewNop().Sugar(), nil, client.Database("checkers_test"))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := repository.GenerateGameKey(ctx)
		done <- err
	}()

	select {
	case err = <-done:
		if err == nil {
			t.Error("GenerateGameKey() succeeded without a database")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("GenerateGameKey() did not return after the database became unreachable")
	}
}

func TestMemoryGenerateGameKey_CancelledContext(t *testing.T) {
	store := NewMemoryGameStorage()

	key, err := store.GenerateGameKey(context.Background())
	if err != nil || key == "" {
		t.Fatalf("GenerateGameKey() = %q, %v; want a key", key, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err = store.GenerateGameKey(ctx); err == nil {
		t.Error("GenerateGameKey() with cancelled context succeeded")
	}
}
