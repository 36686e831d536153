package services

import (
	"context"
	"encoding/json"
	"time"

	"prompthub/models"
	"prompthub/repositories"

	"github.com/google/uuid"
)

const previewTTL = 10 * time.Minute

// DraftService persists the in-progress creation form. One slot per
// device, keyed by the device id alone — deliberately not scoped to the
// authenticated user, matching the original single-slot behavior.
type DraftService interface {
	SaveDraft(ctx context.Context, deviceID string, form models.JSONMap) (*models.Draft, error)
	GetDraft(ctx context.Context, deviceID string) (*models.Draft, error)
	ClearDraft(ctx context.Context, deviceID string) error
	SavePreview(ctx context.Context, payload json.RawMessage) (string, error)
	TakePreview(ctx context.Context, token string) (json.RawMessage, error)
}

type draftService struct {
	draftRepo repositories.DraftRepository
}

func NewDraftService(draftRepo repositories.DraftRepository) DraftService {
	return &draftService{draftRepo: draftRepo}
}

// SaveDraft overwrites the slot; last write wins, no expiry. The
// last-saved stamp is advisory only.
func (s *draftService) SaveDraft(ctx context.Context, deviceID string, form models.JSONMap) (*models.Draft, error) {
	if deviceID == "" {
		return nil, models.NewValidationError("device id is required")
	}

	draft := &models.Draft{Form: form, LastSaved: time.Now().UTC()}
	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}
	if err := s.draftRepo.Save(ctx, deviceID, payload); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetDraft returns nil when the slot is empty.
func (s *draftService) GetDraft(ctx context.Context, deviceID string) (*models.Draft, error) {
	if deviceID == "" {
		return nil, models.NewValidationError("device id is required")
	}

	payload, err := s.draftRepo.Get(ctx, deviceID)
	if err != nil || payload == nil {
		return nil, err
	}

	var draft models.Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *draftService) ClearDraft(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return models.NewValidationError("device id is required")
	}
	return s.draftRepo.Clear(ctx, deviceID)
}

// SavePreview stores a one-shot payload and returns its token.
func (s *draftService) SavePreview(ctx context.Context, payload json.RawMessage) (string, error) {
	token := uuid.NewString()
	if err := s.draftRepo.SavePreview(ctx, token, payload, previewTTL); err != nil {
		return "", err
	}
	return token, nil
}

// TakePreview returns and deletes the payload; a second read finds
// nothing.
func (s *draftService) TakePreview(ctx context.Context, token string) (json.RawMessage, error) {
	payload, err := s.draftRepo.TakePreview(ctx, token)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, models.ErrNotFound
	}
	return payload, nil
}
