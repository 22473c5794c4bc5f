package consults

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

const consultColumns = "id, patient_name, doctor_id, date, type, status, created_at"

func scanConsult(row interface{ Scan(...any) error }) (Consult, error) {
	var co Consult
	err := row.Scan(&co.ID, &co.PatientName, &co.DoctorID, &co.Date, &co.Type, &co.Status, &co.CreatedAt)
	return co, err
}

// Create inserts a scheduled consult.
func (r *Repository) Create(patientName, doctorID string, date time.Time, consultType string) (Consult, error) {
	return r.insert(patientName, doctorID, date, consultType, StatusScheduled)
}

// CreateCompleted records a consult that already happened, stamped with the
// current time. Used when a diagnosis implies a clinical encounter took place.
func (r *Repository) CreateCompleted(patientName, doctorID string) (Consult, error) {
	return r.insert(patientName, doctorID, time.Now(), TypeConsultation, StatusCompleted)
}

func (r *Repository) insert(patientName, doctorID string, date time.Time, consultType, status string) (Consult, error) {
	if consultType == "" {
		consultType = TypeConsultation
	}
	id := uuid.NewString()
	if _, err := r.db.Exec(
		"INSERT INTO consults (id, patient_name, doctor_id, date, type, status) VALUES (?, ?, ?, ?, ?, ?)",
		id, patientName, doctorID, date, consultType, status,
	); err != nil {
		return Consult{}, err
	}
	row := r.db.QueryRow("SELECT "+consultColumns+" FROM consults WHERE id = ?", id)
	return scanConsult(row)
}

// ListForDoctor returns consults visible to a doctor; admin sees all when
// doctorID is empty. Optional status/type filters.
func (r *Repository) ListForDoctor(doctorID, status, consultType string) ([]Consult, error) {
	q := "SELECT " + consultColumns + " FROM consults WHERE 1=1"
	args := []any{}
	if doctorID != "" {
		q += " AND doctor_id = ?"
		args = append(args, doctorID)
	}
	if status != "" && status != "all" {
		q += " AND status = ?"
		args = append(args, status)
	}
	if consultType != "" && consultType != "all" {
		q += " AND type = ?"
		args = append(args, consultType)
	}
	q += " ORDER BY date DESC"
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]Consult, 0)
	for rows.Next() {
		co, err := scanConsult(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, co)
	}
	return list, rows.Err()
}

// ByID fetches one consult; sql.ErrNoRows when it does not exist.
func (r *Repository) ByID(id string) (Consult, error) {
	row := r.db.QueryRow("SELECT "+consultColumns+" FROM consults WHERE id = ?", id)
	return scanConsult(row)
}

// Stats counts consults per status for a doctor (all doctors when empty).
func (r *Repository) Stats(doctorID string) (map[string]int, error) {
	q := "SELECT status, COUNT(1) FROM consults"
	args := []any{}
	if doctorID != "" {
		q += " WHERE doctor_id = ?"
		args = append(args, doctorID)
	}
	q += " GROUP BY status"
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{StatusScheduled: 0, StatusCompleted: 0, StatusCancelled: 0}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

// UpdateStatus moves a consult between AGENDADA/CONCLUIDA/CANCELADA.
func (r *Repository) UpdateStatus(id, status string) error {
	res, err := r.db.Exec("UPDATE consults SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
