package endpoints

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

const endpointColumns = "id, name, url, method, auth_type, IFNULL(credentials_token,''), status, created_at, updated_at"

func scanEndpoint(row interface{ Scan(...any) error }) (Endpoint, error) {
	var e Endpoint
	err := row.Scan(&e.ID, &e.Name, &e.URL, &e.Method, &e.AuthType, &e.CredentialsToken, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *Repository) All() ([]Endpoint, error) {
	rows, err := r.db.Query("SELECT " + endpointColumns + " FROM endpoints ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]Endpoint, 0)
	for rows.Next() {
		e, err := scanEndpoint(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// ByID returns the endpoint or nil when it does not exist.
func (r *Repository) ByID(id string) (*Endpoint, error) {
	row := r.db.QueryRow("SELECT "+endpointColumns+" FROM endpoints WHERE id = ? LIMIT 1", id)
	e, err := scanEndpoint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) Create(name, url, method, authType, token, status string) (Endpoint, error) {
	if method == "" {
		method = "POST"
	}
	if authType == "" {
		authType = AuthBasic
	}
	if status == "" {
		status = StatusActive
	}
	id := uuid.NewString()
	if _, err := r.db.Exec(
		"INSERT INTO endpoints (id, name, url, method, auth_type, credentials_token, status) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, name, url, method, authType, token, status,
	); err != nil {
		return Endpoint{}, err
	}
	row := r.db.QueryRow("SELECT "+endpointColumns+" FROM endpoints WHERE id = ?", id)
	return scanEndpoint(row)
}

// Update overwrites the provided fields; empty strings keep the stored value
// except for the token, which is only replaced when non-empty.
func (r *Repository) Update(id, name, url, method, authType, token, status string) (Endpoint, error) {
	cur, err := r.ByID(id)
	if err != nil {
		return Endpoint{}, err
	}
	if cur == nil {
		return Endpoint{}, sql.ErrNoRows
	}
	if name == "" {
		name = cur.Name
	}
	if url == "" {
		url = cur.URL
	}
	if method == "" {
		method = cur.Method
	}
	if authType == "" {
		authType = cur.AuthType
	}
	if token == "" {
		token = cur.CredentialsToken
	}
	if status == "" {
		status = cur.Status
	}
	if _, err := r.db.Exec(
		"UPDATE endpoints SET name = ?, url = ?, method = ?, auth_type = ?, credentials_token = ?, status = ? WHERE id = ?",
		name, url, method, authType, token, status, id,
	); err != nil {
		return Endpoint{}, err
	}
	row := r.db.QueryRow("SELECT "+endpointColumns+" FROM endpoints WHERE id = ?", id)
	return scanEndpoint(row)
}

func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM endpoints WHERE id = ?", id)
	return err
}
