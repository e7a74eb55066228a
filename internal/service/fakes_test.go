package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"formsmith/internal/model"
	"formsmith/internal/repository"
)

// in-memory stand-ins for Mongo and Redis; values are copied through JSON
// the way the real stores serialize them

func clone[T any](v *T) *T {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return &out
}

type memFormRepo struct {
	mu    sync.Mutex
	seq   int
	forms map[string]*model.FormDefinition
}

func newMemFormRepo() *memFormRepo {
	return &memFormRepo{forms: make(map[string]*model.FormDefinition)}
}

func (r *memFormRepo) Create(_ context.Context, f *model.FormDefinition) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == "" {
		r.seq++
		f.ID = fmt.Sprintf("form-%d", r.seq)
	}
	f.CreatedAt = time.Now().UTC()
	f.UpdatedAt = f.CreatedAt
	r.forms[f.ID] = clone(f)
	return f.ID, nil
}

func (r *memFormRepo) GetByID(_ context.Context, id string) (*model.FormDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[id]
	if !ok {
		return nil, nil
	}
	return clone(f), nil
}

func (r *memFormRepo) ListByOwner(_ context.Context, ownerID string) ([]*model.FormDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.FormDefinition{}
	for _, f := range r.forms {
		if f.OwnerID == ownerID {
			out = append(out, clone(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memFormRepo) Update(_ context.Context, f *model.FormDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[f.ID]; !ok {
		return repository.ErrNotFound
	}
	f.UpdatedAt = time.Now().UTC()
	r.forms[f.ID] = clone(f)
	return nil
}

func (r *memFormRepo) SetPublished(_ context.Context, id string, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[id]
	if !ok {
		return repository.ErrNotFound
	}
	f.IsPublished = published
	return nil
}

func (r *memFormRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.forms, id)
	return nil
}

func (r *memFormRepo) EnsureIndexes(context.Context) error { return nil }

type memResponseRepo struct {
	mu        sync.Mutex
	seq       int
	responses []*model.Response
	failNext  error
	creates   int

	// duringCreate runs inside the store call, before failNext is checked
	duringCreate func()
}

func (r *memResponseRepo) CreateResponse(_ context.Context, in *model.ResponseInput) (*model.Response, error) {
	if r.duringCreate != nil {
		r.duringCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if err := r.failNext; err != nil {
		r.failNext = nil
		return nil, err
	}
	for _, existing := range r.responses {
		if in.IdempotencyKey != "" && existing.IdempotencyKey == in.IdempotencyKey {
			return existing, nil
		}
	}
	r.seq++
	resp := &model.Response{
		ID:             fmt.Sprintf("resp-%d", r.seq),
		FormID:         in.FormID,
		SessionID:      in.SessionID,
		IdempotencyKey: in.IdempotencyKey,
		Answers:        in.Answers,
		SubmittedAt:    in.SubmittedAt,
		Score:          in.Score,
	}
	r.responses = append(r.responses, resp)
	return resp, nil
}

func (r *memResponseRepo) GetByID(_ context.Context, formID, id string) (*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, resp := range r.responses {
		if resp.FormID == formID && resp.ID == id {
			return resp, nil
		}
	}
	return nil, nil
}

func (r *memResponseRepo) ListByForm(_ context.Context, formID string) ([]*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Response{}
	for _, resp := range r.responses {
		if resp.FormID == formID {
			out = append(out, resp)
		}
	}
	return out, nil
}

func (r *memResponseRepo) DeleteByForm(_ context.Context, formID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.responses[:0]
	var n int64
	for _, resp := range r.responses {
		if resp.FormID == formID {
			n++
			continue
		}
		kept = append(kept, resp)
	}
	r.responses = kept
	return n, nil
}

func (r *memResponseRepo) EnsureIndexes(context.Context) error { return nil }

type memFormCache struct {
	mu    sync.Mutex
	forms map[string]*model.FormDefinition
}

func newMemFormCache() *memFormCache {
	return &memFormCache{forms: make(map[string]*model.FormDefinition)}
}

func (c *memFormCache) Get(_ context.Context, id string) (*model.FormDefinition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.forms[id]; ok {
		return clone(f), nil
	}
	return nil, nil
}

func (c *memFormCache) Set(_ context.Context, f *model.FormDefinition) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forms[f.ID] = clone(f)
	return nil
}

func (c *memFormCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.forms, id)
	return nil
}

type memSessionCache struct {
	mu       sync.Mutex
	sessions map[string]*model.SessionState
}

func newMemSessionCache() *memSessionCache {
	return &memSessionCache{sessions: make(map[string]*model.SessionState)}
}

func (c *memSessionCache) Set(_ context.Context, s *model.SessionState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.ID] = clone(s)
	return nil
}

func (c *memSessionCache) Get(_ context.Context, id string) (*model.SessionState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sessions[id]; ok {
		return clone(s), nil
	}
	return nil, nil
}

func (c *memSessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}

type memAnalyticsCache struct {
	mu   sync.Mutex
	data map[string]*model.FormAnalytics
}

func newMemAnalyticsCache() *memAnalyticsCache {
	return &memAnalyticsCache{data: make(map[string]*model.FormAnalytics)}
}

func (c *memAnalyticsCache) Get(_ context.Context, formID string) (*model.FormAnalytics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[formID], nil
}

func (c *memAnalyticsCache) Set(_ context.Context, a *model.FormAnalytics) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[a.FormID] = a
	return nil
}

func (c *memAnalyticsCache) Invalidate(_ context.Context, formID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, formID)
	return nil
}

type memLock struct {
	mu      sync.Mutex
	holders map[string]string
}

func newMemLock() *memLock {
	return &memLock{holders: make(map[string]string)}
}

func (l *memLock) Acquire(_ context.Context, sessionID, holder string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.holders[sessionID]; held {
		return false, nil
	}
	l.holders[sessionID] = holder
	return true, nil
}

func (l *memLock) Release(_ context.Context, sessionID, holder string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.holders[sessionID] == holder {
		delete(l.holders, sessionID)
	}
	return nil
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueResponseSubmitted(ctx context.Context, formID, responseID string) error {
	return m.Called(ctx, formID, responseID).Error(0)
}

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) BroadcastToOwner(formID string, msgType string, payload interface{}) {
	m.Called(formID, msgType, payload)
}

func (m *mockBroadcaster) DisconnectForm(formID string) {
	m.Called(formID)
}
