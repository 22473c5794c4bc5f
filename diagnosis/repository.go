package diagnosis

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

const diagnosisColumns = "id, doctor_id, patient_name, user_prompt, IFNULL(complementary_data,''), IFNULL(exams,''), ai_response, model, status, IFNULL(consult_id,''), created_at"

func scanDiagnosis(row interface{ Scan(...any) error }) (Diagnosis, error) {
	var d Diagnosis
	var rawExams string
	err := row.Scan(&d.ID, &d.DoctorID, &d.PatientName, &d.UserPrompt, &d.ComplementaryData, &rawExams, &d.AIResponse, &d.Model, &d.Status, &d.ConsultID, &d.CreatedAt)
	if err != nil {
		return Diagnosis{}, err
	}
	if rawExams != "" {
		_ = json.Unmarshal([]byte(rawExams), &d.Exams)
	}
	return d, nil
}

// Create persists the diagnosis and fills in its generated id, status and
// creation time.
func (r *Repository) Create(d *Diagnosis) error {
	d.ID = uuid.NewString()
	d.Status = StatusOriginal
	d.CreatedAt = time.Now()

	var examsJSON any
	if len(d.Exams) > 0 {
		b, err := json.Marshal(d.Exams)
		if err != nil {
			return err
		}
		examsJSON = string(b)
	}
	var compl any
	if d.ComplementaryData != "" {
		compl = d.ComplementaryData
	}
	_, err := r.db.Exec(
		"INSERT INTO diagnoses (id, doctor_id, patient_name, user_prompt, complementary_data, exams, ai_response, model, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		d.ID, d.DoctorID, d.PatientName, d.UserPrompt, compl, examsJSON, d.AIResponse, d.Model, d.Status, d.CreatedAt,
	)
	return err
}

// SetConsultID links the diagnosis to its auto-created consult.
func (r *Repository) SetConsultID(id, consultID string) error {
	_, err := r.db.Exec("UPDATE diagnoses SET consult_id = ? WHERE id = ?", consultID, id)
	return err
}

// ListForDoctor returns the latest diagnoses, all of them when doctorID is
// empty (admin), optionally filtered by a patient/narrative search term.
func (r *Repository) ListForDoctor(doctorID, search string) ([]Diagnosis, error) {
	q := "SELECT " + diagnosisColumns + " FROM diagnoses WHERE 1=1"
	args := []any{}
	if doctorID != "" {
		q += " AND doctor_id = ?"
		args = append(args, doctorID)
	}
	if search != "" {
		q += " AND (patient_name LIKE ? OR user_prompt LIKE ?)"
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	q += " ORDER BY created_at DESC LIMIT 50"
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]Diagnosis, 0)
	for rows.Next() {
		d, err := scanDiagnosis(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// ByID returns the diagnosis or nil when it does not exist.
func (r *Repository) ByID(id string) (*Diagnosis, error) {
	row := r.db.QueryRow("SELECT "+diagnosisColumns+" FROM diagnoses WHERE id = ? LIMIT 1", id)
	d, err := scanDiagnosis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM diagnoses WHERE id = ?", id)
	return err
}
