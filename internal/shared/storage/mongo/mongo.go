package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultDatabase       = "resume-builder"
	defaultConnectTimeout = 10 * time.Second
)

// IsMongoURL reports whether raw points at a MongoDB deployment.
func IsMongoURL(raw string) bool {
	raw = strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(raw, "mongodb://") || strings.HasPrefix(raw, "mongodb+srv://")
}

// Connect dials uri, pings the primary and returns the client with its selected database.
// An empty database name falls back to the path of uri, then to a fixed default.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	clientOpts := options.Client().ApplyURI(uri).SetConnectTimeout(defaultConnectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(DatabaseName(uri, database)), nil
}

// DatabaseName resolves the database to use for uri.
func DatabaseName(uri, override string) string {
	if name := strings.TrimSpace(override); name != "" {
		return name
	}
	if parsed, err := url.Parse(strings.TrimSpace(uri)); err == nil {
		if name := strings.Trim(parsed.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDatabase
}
