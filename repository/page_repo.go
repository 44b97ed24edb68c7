package repository

import (
	"context"
	"errors"

	"github.com/docqa/docqa-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var ErrPageNotFound = errors.New("page not found")

type PageRepo interface {
	CreatePage(ctx context.Context, page *types.Page) error
	GetPage(ctx context.Context, documentID string, pageNumber int) (*types.Page, error)
	ListPagesByDocument(ctx context.Context, documentID string) ([]types.Page, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

type pageRepo struct {
	collection *mongo.Collection
}

func NewPageRepo(collection *mongo.Collection) PageRepo {
	return &pageRepo{
		collection: collection,
	}
}

func (r *pageRepo) CreatePage(ctx context.Context, page *types.Page) error {
	if page.ID == "" {
		page.ID = bson.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, page)
	return err
}

func (r *pageRepo) GetPage(ctx context.Context, documentID string, pageNumber int) (*types.Page, error) {
	var page types.Page
	err := r.collection.FindOne(ctx, bson.M{"document_id": documentID, "page_number": pageNumber}).Decode(&page)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepo) ListPagesByDocument(ctx context.Context, documentID string) ([]types.Page, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"document_id": documentID},
		options.Find().SetSort(bson.D{{Key: "page_number", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pages []types.Page
	for cursor.Next(ctx) {
		var page types.Page
		if err := cursor.Decode(&page); err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (r *pageRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"document_id": documentID})
	return err
}
