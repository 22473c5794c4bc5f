package diagnosis

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryCreateFillsIdentity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO diagnoses").
		WithArgs(sqlmock.AnyArg(), "doc-1", "Ana", "febre", nil, sqlmock.AnyArg(), "resposta", string(TierSimulated), StatusOriginal, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRepository(db)
	d := &Diagnosis{
		DoctorID:    "doc-1",
		PatientName: "Ana",
		UserPrompt:  "febre",
		AIResponse:  "resposta",
		Model:       string(TierSimulated),
		Exams:       []Exam{{OriginalName: "exame.pdf"}},
	}
	require.NoError(t, repo.Create(d))
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, StatusOriginal, d.Status)
	assert.False(t, d.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySetConsultID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE diagnoses SET consult_id").
		WithArgs("c-1", "d-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRepository(db)
	require.NoError(t, repo.SetConsultID("d-1", "c-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
