package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"formsmith/internal/model"
	"formsmith/internal/service"
)

type mockRefresher struct {
	mock.Mock
}

func (m *mockRefresher) Refresh(ctx context.Context, formID string) (*model.FormAnalytics, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FormAnalytics), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, formID, eventType string, payload interface{}) error {
	return m.Called(ctx, formID, eventType, payload).Error(0)
}

func TestNewResponseSubmittedTask(t *testing.T) {
	task, err := NewResponseSubmittedTask("f1", "r1")
	require.NoError(t, err)
	assert.Equal(t, TypeResponseSubmitted, task.Type())

	var payload ResponseSubmittedPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, ResponseSubmittedPayload{FormID: "f1", ResponseID: "r1"}, payload)
}

func TestHandleResponseSubmittedPublishesAnalytics(t *testing.T) {
	refresher := &mockRefresher{}
	publisher := &mockPublisher{}
	analytics := &model.FormAnalytics{FormID: "f1", TotalResponses: 3}

	refresher.On("Refresh", mock.Anything, "f1").Return(analytics, nil).Once()
	publisher.On("Publish", mock.Anything, "f1", service.MsgAnalyticsUpdate, analytics).Return(nil).Once()

	task, err := NewResponseSubmittedTask("f1", "r1")
	require.NoError(t, err)
	require.NoError(t, NewHandler(refresher, publisher).HandleResponseSubmitted(context.Background(), task))

	refresher.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestHandleResponseSubmittedSkipsDeletedForm(t *testing.T) {
	refresher := &mockRefresher{}
	publisher := &mockPublisher{}
	refresher.On("Refresh", mock.Anything, "gone").Return(nil, service.ErrNotFound)

	task, err := NewResponseSubmittedTask("gone", "r1")
	require.NoError(t, err)
	assert.NoError(t, NewHandler(refresher, publisher).HandleResponseSubmitted(context.Background(), task))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleResponseSubmittedRetriesStoreErrors(t *testing.T) {
	refresher := &mockRefresher{}
	refresher.On("Refresh", mock.Anything, "f1").Return(nil, errors.New("mongo unavailable"))

	task, err := NewResponseSubmittedTask("f1", "r1")
	require.NoError(t, err)
	err = NewHandler(refresher, &mockPublisher{}).HandleResponseSubmitted(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleResponseSubmittedRejectsBadPayload(t *testing.T) {
	task := asynq.NewTask(TypeResponseSubmitted, []byte("{"))
	err := NewHandler(&mockRefresher{}, &mockPublisher{}).HandleResponseSubmitted(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
