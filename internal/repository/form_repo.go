package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formsmith/internal/model"
)

// ErrNotFound is returned by writes that matched no document
var ErrNotFound = errors.New("document not found")

// FormRepo handles MongoDB operations for form definitions
type FormRepo interface {
	Create(ctx context.Context, form *model.FormDefinition) (string, error)
	GetByID(ctx context.Context, id string) (*model.FormDefinition, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.FormDefinition, error)
	Update(ctx context.Context, form *model.FormDefinition) error
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type formRepo struct {
	collection *mongo.Collection
}

// NewFormRepo creates a new form repository
func NewFormRepo(db *mongo.Database) FormRepo {
	return &formRepo{
		collection: db.Collection("forms"),
	}
}

func (r *formRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "updatedAt", Value: -1}},
	})
	return err
}

func (r *formRepo) Create(ctx context.Context, form *model.FormDefinition) (string, error) {
	if form.ID == "" {
		form.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	form.CreatedAt = now
	form.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, form); err != nil {
		return "", err
	}
	return form.ID, nil
}

func (r *formRepo) GetByID(ctx context.Context, id string) (*model.FormDefinition, error) {
	var form model.FormDefinition
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&form)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// ListByOwner returns the owner's forms, most recently updated first
func (r *formRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.FormDefinition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	forms := []*model.FormDefinition{}
	if err := cursor.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *formRepo) Update(ctx context.Context, form *model.FormDefinition) error {
	form.UpdatedAt = time.Now().UTC()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": form.ID}, form)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *formRepo) SetPublished(ctx context.Context, id string, published bool) error {
	update := bson.M{"$set": bson.M{"isPublished": published, "updatedAt": time.Now().UTC()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *formRepo) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
