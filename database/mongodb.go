package database

import (
	"os"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// NewMongoClient builds a client from the MONGODB_URI environment variable.
// The driver connects lazily; callers ping before first use.
func NewMongoClient() (*mongo.Client, error) {
	return mongo.Connect(options.Client().
		ApplyURI(os.Getenv("MONGODB_URI")).
		SetBSONOptions(
			&options.BSONOptions{
				ObjectIDAsHexString: true,
			},
		))
}
