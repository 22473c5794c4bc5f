package audit

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactHidesSensitiveKeys(t *testing.T) {
	out := redact(map[string]any{
		"patientName": "Ana",
		"apiToken":    "secret",
		"nested": map[string]any{
			"password": "hunter2",
			"note":     "ok",
		},
	})
	assert.Equal(t, "Ana", out["patientName"])
	assert.Equal(t, "[REDACTED]", out["apiToken"])
	nested := out["nested"].(map[string]any)
	assert.Equal(t, "[REDACTED]", nested["password"])
	assert.Equal(t, "ok", nested["note"])
}

func TestLogSwallowsWriteFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnError(assert.AnError)

	logger := NewLogger(db)
	// Must not panic and must not propagate the failure.
	logger.Log(nil, "u-1", "Dr. Ana", "CREATE", "DIAGNOSIS", "d-1", map[string]any{"model": "simulation-fallback"})
	assert.NoError(t, mock.ExpectationsWereMet())
}
