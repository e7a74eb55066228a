package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formsmith/internal/model"
)

// ResponseRepo stores submitted responses. Responses are never updated.
type ResponseRepo interface {
	CreateResponse(ctx context.Context, in *model.ResponseInput) (*model.Response, error)
	GetByID(ctx context.Context, formID, id string) (*model.Response, error)
	ListByForm(ctx context.Context, formID string) ([]*model.Response, error)
	DeleteByForm(ctx context.Context, formID string) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

// EnsureIndexes creates the unique idempotency index that makes
// CreateResponse safe to retry.
func (r *responseRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "idempotencyKey", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"idempotencyKey": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "formId", Value: 1}, {Key: "submittedAt", Value: -1}},
		},
	})
	return err
}

// CreateResponse inserts a response. A repeat of an idempotency key returns
// the response stored by the first attempt.
func (r *responseRepo) CreateResponse(ctx context.Context, in *model.ResponseInput) (*model.Response, error) {
	resp := &model.Response{
		ID:             primitive.NewObjectID().Hex(),
		FormID:         in.FormID,
		SessionID:      in.SessionID,
		IdempotencyKey: in.IdempotencyKey,
		Answers:        in.Answers,
		SubmittedAt:    in.SubmittedAt,
		Score:          in.Score,
	}
	if resp.SubmittedAt.IsZero() {
		resp.SubmittedAt = time.Now().UTC()
	}
	if resp.Answers == nil {
		resp.Answers = model.AnswerSet{}
	}

	_, err := r.collection.InsertOne(ctx, resp)
	if err == nil {
		return resp, nil
	}
	if !mongo.IsDuplicateKeyError(err) || in.IdempotencyKey == "" {
		return nil, err
	}

	var existing model.Response
	if err := r.collection.FindOne(ctx, bson.M{"idempotencyKey": in.IdempotencyKey}).Decode(&existing); err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *responseRepo) GetByID(ctx context.Context, formID, id string) (*model.Response, error) {
	var resp model.Response
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "formId": formID}).Decode(&resp)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListByForm returns a form's responses, newest first
func (r *responseRepo) ListByForm(ctx context.Context, formID string) ([]*model.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"formId": formID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	responses := []*model.Response{}
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) DeleteByForm(ctx context.Context, formID string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"formId": formID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
