package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMongoClient(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	// Connecting is lazy, so no server is needed here.
	client, err := NewMongoClient()
	require.NoError(t, err)
	require.NotNil(t, client)
	_ = client.Disconnect(context.Background())
}

func TestNewMongoClientInvalidURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "://not-a-uri")

	_, err := NewMongoClient()
	assert.Error(t, err)
}
