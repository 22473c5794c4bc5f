package consults

import "time"

const (
	TypeConsultation = "CONSULTA"

	StatusScheduled = "AGENDADA"
	StatusCompleted = "CONCLUIDA"
	StatusCancelled = "CANCELADA"
)

type Consult struct {
	ID          string    `json:"id"`
	PatientName string    `json:"patientName"`
	DoctorID    string    `json:"doctorId"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
