package prompts

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

const promptColumns = "id, name, category, content, is_active, created_at, updated_at"

func scanPrompt(row interface{ Scan(...any) error }) (Prompt, error) {
	var p Prompt
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Content, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repository) All() ([]Prompt, error) {
	rows, err := r.db.Query("SELECT " + promptColumns + " FROM prompts ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]Prompt, 0)
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ActiveByCategory returns the single active prompt for a category, or nil
// when the category has no active prompt. Absence is not an error; callers
// fall back to other instruction sources.
func (r *Repository) ActiveByCategory(category string) (*Prompt, error) {
	row := r.db.QueryRow("SELECT "+promptColumns+" FROM prompts WHERE category = ? AND is_active = 1 LIMIT 1", category)
	p, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a prompt. When it is created active, all other prompts in
// the same category are deactivated first so at most one stays active.
func (r *Repository) Create(name, category, content string, isActive bool) (Prompt, error) {
	if isActive {
		if _, err := r.db.Exec("UPDATE prompts SET is_active = 0 WHERE category = ? AND is_active = 1", category); err != nil {
			return Prompt{}, err
		}
	}
	id := uuid.NewString()
	if _, err := r.db.Exec(
		"INSERT INTO prompts (id, name, category, content, is_active) VALUES (?, ?, ?, ?, ?)",
		id, name, category, content, isActive,
	); err != nil {
		return Prompt{}, err
	}
	row := r.db.QueryRow("SELECT "+promptColumns+" FROM prompts WHERE id = ?", id)
	return scanPrompt(row)
}

// Update edits a prompt, keeping the one-active-per-category rule. If the
// payload omits the category, it is read from the stored row before
// deactivating siblings.
func (r *Repository) Update(id, name, category, content string, isActive bool) (Prompt, error) {
	if category == "" {
		if err := r.db.QueryRow("SELECT category FROM prompts WHERE id = ?", id).Scan(&category); err != nil {
			return Prompt{}, err
		}
	}
	if isActive {
		if _, err := r.db.Exec("UPDATE prompts SET is_active = 0 WHERE category = ? AND is_active = 1 AND id <> ?", category, id); err != nil {
			return Prompt{}, err
		}
	}
	if _, err := r.db.Exec(
		"UPDATE prompts SET name = ?, category = ?, content = ?, is_active = ? WHERE id = ?",
		name, category, content, isActive, id,
	); err != nil {
		return Prompt{}, err
	}
	row := r.db.QueryRow("SELECT "+promptColumns+" FROM prompts WHERE id = ?", id)
	return scanPrompt(row)
}

func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM prompts WHERE id = ?", id)
	return err
}
