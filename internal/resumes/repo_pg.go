package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. List-valued fields live in JSONB columns.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, title, public, template, accent_color, professional_summary,
skills, personal_info, experience, project, education, created_at, updated_at`

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (
    id,
    user_id,
    title,
    public,
    template,
    accent_color,
    professional_summary,
    skills,
    personal_info,
    experience,
    project,
    education,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	resume.Normalize()
	body, err := encodeBody(resume)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(
		ctx,
		query,
		resume.ID,
		resume.UserID,
		resume.Title,
		resume.Public,
		resume.Template,
		resume.AccentColor,
		resume.ProfessionalSummary,
		body.skills,
		body.personalInfo,
		body.experience,
		body.project,
		body.education,
		resume.CreatedAt,
		resume.UpdatedAt,
	)
	return err
}

// GetByID fetches a resume regardless of owner.
func (r *PGRepo) GetByID(ctx context.Context, resumeID string) (Resume, error) {
	query := `
SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1
LIMIT 1`
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, resumeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

// ListByUser lists a user's resumes ordered by last update.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	query := `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY updated_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Resume, 0)
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns of a resume owned by resume.UserID.
func (r *PGRepo) Update(ctx context.Context, resume Resume) error {
	const query = `
UPDATE resumes
SET title = $1,
    public = $2,
    template = $3,
    accent_color = $4,
    professional_summary = $5,
    skills = $6,
    personal_info = $7,
    experience = $8,
    project = $9,
    education = $10,
    updated_at = $11
WHERE id = $12 AND user_id = $13`

	resume.Normalize()
	body, err := encodeBody(resume)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		resume.Title,
		resume.Public,
		resume.Template,
		resume.AccentColor,
		resume.ProfessionalSummary,
		body.skills,
		body.personalInfo,
		body.experience,
		body.project,
		body.education,
		resume.UpdatedAt,
		resume.ID,
		resume.UserID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a resume owned by userID.
func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) error {
	const query = `DELETE FROM resumes WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, resumeID, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type encodedBody struct {
	skills       []byte
	personalInfo []byte
	experience   []byte
	project      []byte
	education    []byte
}

func encodeBody(resume Resume) (encodedBody, error) {
	var (
		out encodedBody
		err error
	)
	if out.skills, err = json.Marshal(resume.Skills); err != nil {
		return encodedBody{}, fmt.Errorf("encode skills: %w", err)
	}
	if out.personalInfo, err = json.Marshal(resume.PersonalInfo); err != nil {
		return encodedBody{}, fmt.Errorf("encode personal_info: %w", err)
	}
	if out.experience, err = json.Marshal(resume.Experience); err != nil {
		return encodedBody{}, fmt.Errorf("encode experience: %w", err)
	}
	if out.project, err = json.Marshal(resume.Project); err != nil {
		return encodedBody{}, fmt.Errorf("encode project: %w", err)
	}
	if out.education, err = json.Marshal(resume.Education); err != nil {
		return encodedBody{}, fmt.Errorf("encode education: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var skills, personalInfo, experience, project, education []byte
	if err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&resume.Public,
		&resume.Template,
		&resume.AccentColor,
		&resume.ProfessionalSummary,
		&skills,
		&personalInfo,
		&experience,
		&project,
		&education,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	); err != nil {
		return Resume{}, err
	}
	decoders := []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"skills", skills, &resume.Skills},
		{"personal_info", personalInfo, &resume.PersonalInfo},
		{"experience", experience, &resume.Experience},
		{"project", project, &resume.Project},
		{"education", education, &resume.Education},
	}
	for _, d := range decoders {
		if len(d.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(d.raw, d.dst); err != nil {
			return Resume{}, fmt.Errorf("decode %s: %w", d.name, err)
		}
	}
	resume.Normalize()
	return resume, nil
}

var _ Repo = (*PGRepo)(nil)
