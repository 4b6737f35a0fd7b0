package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const resumeColumns = `id, user_id, title, personal_info, professional_summary, experience, education, project, skills, template, accent_color, public, version, created_at, updated_at`

// PGRepo implements Repo using Postgres. Structured sections are JSONB columns.
type PGRepo struct {
	DB *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (p *PGRepo) Create(ctx context.Context, r Resume) (Resume, error) {
	r.normalize()
	cols, err := encodeSections(r)
	if err != nil {
		return Resume{}, err
	}
	query := `
INSERT INTO resumes (id, user_id, title, personal_info, professional_summary, experience, education, project, skills, template, accent_color, public, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1, now(), now())
RETURNING ` + resumeColumns
	row := p.DB.QueryRowContext(ctx, query,
		r.ID, r.UserID, r.Title, cols.personalInfo, r.ProfessionalSummary,
		cols.experience, cols.education, cols.project, cols.skills,
		r.Template, r.AccentColor, r.Public,
	)
	return scanResume(row)
}

func (p *PGRepo) Get(ctx context.Context, userID, id string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND user_id = $2 LIMIT 1`
	return notFound(scanResume(p.DB.QueryRowContext(ctx, query, id, userID)))
}

func (p *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`
	rows, err := p.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PGRepo) GetPublic(ctx context.Context, id string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND public = TRUE LIMIT 1`
	return notFound(scanResume(p.DB.QueryRowContext(ctx, query, id)))
}

func (p *PGRepo) Replace(ctx context.Context, r Resume, expectedVersion int) (Resume, error) {
	r.normalize()
	cols, err := encodeSections(r)
	if err != nil {
		return Resume{}, err
	}
	query := `
UPDATE resumes SET
    title = $3,
    personal_info = $4,
    professional_summary = $5,
    experience = $6,
    education = $7,
    project = $8,
    skills = $9,
    template = $10,
    accent_color = $11,
    public = $12,
    version = version + 1,
    updated_at = now()
WHERE id = $1 AND user_id = $2 AND ($13 = 0 OR version = $13)
RETURNING ` + resumeColumns
	row := p.DB.QueryRowContext(ctx, query,
		r.ID, r.UserID, r.Title, cols.personalInfo, r.ProfessionalSummary,
		cols.experience, cols.education, cols.project, cols.skills,
		r.Template, r.AccentColor, r.Public, expectedVersion,
	)
	out, err := scanResume(row)
	if !errors.Is(err, sql.ErrNoRows) {
		return out, err
	}
	if expectedVersion > 0 {
		if _, gerr := p.Get(ctx, r.UserID, r.ID); gerr == nil {
			return Resume{}, ErrVersionConflict
		}
	}
	return Resume{}, ErrNotFound
}

func (p *PGRepo) SetVisibility(ctx context.Context, userID, id string, public bool) (Resume, error) {
	query := `UPDATE resumes SET public = $3 WHERE id = $1 AND user_id = $2 RETURNING ` + resumeColumns
	return notFound(scanResume(p.DB.QueryRowContext(ctx, query, id, userID, public)))
}

func (p *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := p.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type encodedSections struct {
	personalInfo, experience, education, project, skills string
}

func encodeSections(r Resume) (encodedSections, error) {
	var out encodedSections
	fields := []struct {
		dst *string
		val any
	}{
		{&out.personalInfo, r.PersonalInfo},
		{&out.experience, r.Experience},
		{&out.education, r.Education},
		{&out.project, r.Project},
		{&out.skills, r.Skills},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.val)
		if err != nil {
			return encodedSections{}, fmt.Errorf("encode resume section: %w", err)
		}
		*f.dst = string(b)
	}
	return out, nil
}

func scanResume(row rowScanner) (Resume, error) {
	var r Resume
	var personalInfo, experience, education, project, skills []byte
	if err := row.Scan(
		&r.ID, &r.UserID, &r.Title, &personalInfo, &r.ProfessionalSummary,
		&experience, &education, &project, &skills,
		&r.Template, &r.AccentColor, &r.Public, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return Resume{}, err
	}
	sections := []struct {
		raw []byte
		dst any
	}{
		{personalInfo, &r.PersonalInfo},
		{experience, &r.Experience},
		{education, &r.Education},
		{project, &r.Project},
		{skills, &r.Skills},
	}
	for _, s := range sections {
		if len(s.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(s.raw, s.dst); err != nil {
			return Resume{}, fmt.Errorf("decode resume section: %w", err)
		}
	}
	r.normalize()
	return r, nil
}

func notFound(r Resume, err error) (Resume, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	return r, err
}

var _ Repo = (*PGRepo)(nil)
