package resumes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for resumes.
type Service struct {
	Repo Repo
	now  func() time.Time
}

// NewService constructs a Service over repo.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores an empty resume for userID.
func (s *Service) Create(ctx context.Context, userID, title string) (Resume, error) {
	return s.CreateFromContent(ctx, userID, title, Content{})
}

// CreateFromContent stores a resume whose body came from extraction.
func (s *Service) CreateFromContent(ctx context.Context, userID, title string, content Content) (Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	now := s.now()
	resume := Resume{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	content.Apply(&resume)
	resume.Normalize()

	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// Get returns a resume owned by userID. Resumes owned by others are reported as ErrNotFound.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	resume, err := s.Repo.GetByID(ctx, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if resume.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

// GetPublic returns a resume only when its owner marked it public.
func (s *Service) GetPublic(ctx context.Context, resumeID string) (Resume, error) {
	resume, err := s.Repo.GetByID(ctx, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if !resume.Public {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

// List returns userID's resumes, most recently updated first.
func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Update merges data onto the stored resume. data is a JSON object, or a JSON string
// holding one. Identity and creation time cannot be changed.
func (s *Service) Update(ctx context.Context, userID, resumeID string, data json.RawMessage) (Resume, error) {
	patch, err := decodePatch(data)
	if err != nil {
		return Resume{}, err
	}

	existing, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil {
		return Resume{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	updated := existing
	// Lists in the patch replace the stored ones element for element.
	if _, ok := fields["skills"]; ok {
		updated.Skills = nil
	}
	if _, ok := fields["experience"]; ok {
		updated.Experience = nil
	}
	if _, ok := fields["project"]; ok {
		updated.Project = nil
	}
	if _, ok := fields["education"]; ok {
		updated.Education = nil
	}
	if err := json.Unmarshal(patch, &updated); err != nil {
		return Resume{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	updated.ID = existing.ID
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now()
	updated.Normalize()

	if err := s.Repo.Update(ctx, updated); err != nil {
		return Resume{}, err
	}
	return updated, nil
}

// Delete removes a resume owned by userID.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	return s.Repo.Delete(ctx, userID, resumeID)
}

func decodePatch(data json.RawMessage) ([]byte, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, fmt.Errorf("%w: resumeData is required", ErrInvalidInput)
	}
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		data = bytes.TrimSpace([]byte(inner))
	}
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: resumeData must be an object", ErrInvalidInput)
	}
	return data, nil
}
