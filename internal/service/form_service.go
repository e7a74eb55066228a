package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"formsmith/internal/cache"
	"formsmith/internal/form"
	"formsmith/internal/log"
	"formsmith/internal/model"
	"formsmith/internal/repository"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("form belongs to another owner")
)

// FormService handles form CRUD operations and serves published forms
type FormService struct {
	formRepo       repository.FormRepo
	responseRepo   repository.ResponseRepo
	formCache      cache.FormCache
	analyticsCache cache.AnalyticsCache
	broadcaster    Broadcaster
	newID          func() string
}

// NewFormService creates a new form service
func NewFormService(
	formRepo repository.FormRepo,
	responseRepo repository.ResponseRepo,
	formCache cache.FormCache,
	analyticsCache cache.AnalyticsCache,
) *FormService {
	return &FormService{
		formRepo:       formRepo,
		responseRepo:   responseRepo,
		formCache:      formCache,
		analyticsCache: analyticsCache,
		newID:          func() string { return primitive.NewObjectID().Hex() },
	}
}

// SetBroadcaster sets the WebSocket broadcaster
func (s *FormService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create checks and stores a new, unpublished form
func (s *FormService) Create(ctx context.Context, ownerID string, def *model.FormDefinition) (*model.FormDefinition, error) {
	def.ID = ""
	def.OwnerID = ownerID
	def.IsPublished = false
	form.Normalize(def, s.newID)
	if err := form.CheckDefinition(def); err != nil {
		return nil, err
	}

	if _, err := s.formRepo.Create(ctx, def); err != nil {
		return nil, fmt.Errorf("create form: %w", err)
	}
	return def, nil
}

// Import builds a form from an import document and stores it
func (s *FormService) Import(ctx context.Context, ownerID string, doc *form.ImportDocument) (*model.FormDefinition, error) {
	return s.Create(ctx, ownerID, form.FromImport(doc, s.newID))
}

// Get returns a form the owner owns
func (s *FormService) Get(ctx context.Context, ownerID, id string) (*model.FormDefinition, error) {
	def, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, ErrNotFound
	}
	if def.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return def, nil
}

// List returns all forms for an owner
func (s *FormService) List(ctx context.Context, ownerID string) ([]*model.FormDefinition, error) {
	return s.formRepo.ListByOwner(ctx, ownerID)
}

// Update replaces a form's content. Ownership, publish state and creation time are kept.
func (s *FormService) Update(ctx context.Context, ownerID, id string, def *model.FormDefinition) (*model.FormDefinition, error) {
	existing, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	def.ID = existing.ID
	def.OwnerID = existing.OwnerID
	def.IsPublished = existing.IsPublished
	def.CreatedAt = existing.CreatedAt
	form.Normalize(def, s.newID)
	if err := form.CheckDefinition(def); err != nil {
		return nil, err
	}

	if err := s.formRepo.Update(ctx, def); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update form: %w", err)
	}
	s.invalidate(ctx, id)
	return def, nil
}

// SetPublished toggles whether respondents can open the form
func (s *FormService) SetPublished(ctx context.Context, ownerID, id string, published bool) (*model.FormDefinition, error) {
	def, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if def.IsPublished == published {
		return def, nil
	}

	if err := s.formRepo.SetPublished(ctx, id, published); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	def.IsPublished = published
	s.invalidate(ctx, id)
	return def, nil
}

// Delete removes a form together with its responses
func (s *FormService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.formRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	removed, err := s.responseRepo.DeleteByForm(ctx, id)
	if err != nil {
		log.WithFields(log.Fields{"form_id": id}).WithError(err).Error("delete responses failed")
	} else {
		log.Debugf("Deleted form %s and %d responses", id, removed)
	}

	s.invalidate(ctx, id)
	if err := s.analyticsCache.Invalidate(ctx, id); err != nil {
		log.WithFields(log.Fields{"form_id": id}).WithError(err).Warn("analytics cache invalidate failed")
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOwner(id, MsgFormDeleted, map[string]string{"formId": id})
		s.broadcaster.DisconnectForm(id)
	}
	return nil
}

// LoadPublished returns a published form for respondents, reading through the cache
func (s *FormService) LoadPublished(ctx context.Context, id string) (*model.FormDefinition, error) {
	def, err := s.formCache.Get(ctx, id)
	if err != nil {
		log.WithFields(log.Fields{"form_id": id}).WithError(err).Warn("form cache read failed")
		def = nil
	}

	if def == nil {
		def, err = s.formRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if def == nil {
			return nil, ErrNotFound
		}
		if def.IsPublished {
			if err := s.formCache.Set(ctx, def); err != nil {
				log.WithFields(log.Fields{"form_id": id}).WithError(err).Warn("form cache write failed")
			}
		}
	}

	if !def.IsPublished {
		return nil, ErrNotFound
	}
	return def, nil
}

func (s *FormService) invalidate(ctx context.Context, id string) {
	if err := s.formCache.Delete(ctx, id); err != nil {
		log.WithFields(log.Fields{"form_id": id}).WithError(err).Warn("form cache invalidate failed")
	}
}
