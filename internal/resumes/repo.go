package resumes

import "context"

// Repo defines persistence operations for resumes.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, resumeID string) (Resume, error)
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	// Update replaces the stored body of resume.ID owned by resume.UserID.
	Update(ctx context.Context, resume Resume) error
	Delete(ctx context.Context, userID, resumeID string) error
}
