package service

import (
	"context"

	"formsmith/internal/model"
	"formsmith/internal/repository"
)

// ResponseService serves stored responses to form owners
type ResponseService struct {
	forms        *FormService
	responseRepo repository.ResponseRepo
}

// NewResponseService creates a new response service
func NewResponseService(forms *FormService, responseRepo repository.ResponseRepo) *ResponseService {
	return &ResponseService{
		forms:        forms,
		responseRepo: responseRepo,
	}
}

// List returns every response of an owned form, newest first
func (s *ResponseService) List(ctx context.Context, ownerID, formID string) ([]*model.Response, error) {
	if _, err := s.forms.Get(ctx, ownerID, formID); err != nil {
		return nil, err
	}
	return s.responseRepo.ListByForm(ctx, formID)
}

// Get returns one response of an owned form
func (s *ResponseService) Get(ctx context.Context, ownerID, formID, responseID string) (*model.Response, error) {
	if _, err := s.forms.Get(ctx, ownerID, formID); err != nil {
		return nil, err
	}
	resp, err := s.responseRepo.GetByID(ctx, formID, responseID)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrNotFound
	}
	return resp, nil
}
