package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"formsmith/internal/model"
)

// these run against the driver's mock deployment and need no server

func TestCreateResponseDuplicateKeyReturnsStored(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns first attempt", func(mt *mtest.T) {
		repo := &responseRepo{collection: mt.Coll}
		submitted := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error index: idempotencyKey_1",
			}),
			mtest.CreateCursorResponse(0, "test.responses", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "first-id"},
				{Key: "formId", Value: "f1"},
				{Key: "sessionId", Value: "s1"},
				{Key: "idempotencyKey", Value: "tok-1"},
				{Key: "answers", Value: bson.D{{Key: "q", Value: bson.A{"X", "Y"}}}},
				{Key: "submittedAt", Value: primitive.NewDateTimeFromTime(submitted)},
				{Key: "score", Value: 100},
			}),
		)

		got, err := repo.CreateResponse(context.Background(), &model.ResponseInput{
			FormID:         "f1",
			SessionID:      "s1",
			IdempotencyKey: "tok-1",
			Answers:        model.AnswerSet{"q": model.MultiValue("Y", "X")},
		})
		require.NoError(t, err)
		assert.Equal(t, "first-id", got.ID)
		assert.True(t, submitted.Equal(got.SubmittedAt))
		require.NotNil(t, got.Score)
		assert.Equal(t, 100, *got.Score)
		assert.True(t, got.Answers["q"].Equal(model.MultiValue("X", "Y")))

		insert := mt.GetStartedEvent()
		require.NotNil(t, insert)
		assert.Equal(t, "insert", insert.CommandName)
		docs, err := insert.Command.Lookup("documents").Array().Values()
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "tok-1", docs[0].Document().Lookup("idempotencyKey").StringValue())

		find := mt.GetStartedEvent()
		require.NotNil(t, find)
		assert.Equal(t, "find", find.CommandName)
		assert.Equal(t, "tok-1", find.Command.Lookup("filter", "idempotencyKey").StringValue())
	})

	mt.Run("no key is a plain error", func(mt *mtest.T) {
		repo := &responseRepo{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := repo.CreateResponse(context.Background(), &model.ResponseInput{FormID: "f1"})
		require.Error(t, err)

		assert.Equal(t, "insert", mt.GetStartedEvent().CommandName)
		assert.Nil(t, mt.GetStartedEvent(), "no lookup without a key")
	})
}

func TestCreateResponseFillsDefaults(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		repo := &responseRepo{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		before := time.Now().UTC()
		got, err := repo.CreateResponse(context.Background(), &model.ResponseInput{FormID: "f1"})
		require.NoError(t, err)
		assert.NotEmpty(t, got.ID)
		assert.False(t, got.SubmittedAt.Before(before.Add(-time.Second)))
		assert.NotNil(t, got.Answers)
		assert.Nil(t, got.Score)

		doc := mt.GetStartedEvent().Command.Lookup("documents").Array().Index(0).Value().Document()
		_, err = doc.LookupErr("idempotencyKey")
		assert.Error(t, err, "empty keys are left out so the partial index ignores them")
		_, err = doc.LookupErr("score")
		assert.Error(t, err)
	})
}

func TestResponseIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unique partial idempotency index", func(mt *mtest.T) {
		repo := &responseRepo{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(t, repo.EnsureIndexes(context.Background()))

		evt := mt.GetStartedEvent()
		require.NotNil(t, evt)
		assert.Equal(t, "createIndexes", evt.CommandName)
		indexes, err := evt.Command.Lookup("indexes").Array().Values()
		require.NoError(t, err)
		require.Len(t, indexes, 2)

		idem := indexes[0].Document()
		assert.Equal(t, "idempotencyKey_1", idem.Lookup("name").StringValue())
		assert.True(t, idem.Lookup("unique").Boolean())
		assert.Equal(t, "string", idem.Lookup("partialFilterExpression", "idempotencyKey", "$type").StringValue())

		byForm := indexes[1].Document()
		assert.Equal(t, "formId_1_submittedAt_-1", byForm.Lookup("name").StringValue())
	})
}
