package migrations

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	Password     string         `db:"password"`
	Role         string         `db:"role"`
	Status       string         `db:"status"`
	Specialty    string         `db:"specialty"`
	EndpointID   sql.NullString `db:"endpoint_id"`
	CustomPrompt sql.NullString `db:"custom_prompt"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

var db *sql.DB

// Init sets the DB connection for migrations and queries
func Init(database *sql.DB) {
	db = database
}

// Migrate creates required tables if they do not exist
func Migrate() error {
	if db == nil {
		return fmt.Errorf("db is not initialized")
	}
	createUsers := `
	CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		email VARCHAR(191) NOT NULL UNIQUE,
		password VARCHAR(191) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'MEDICO',
		status VARCHAR(50) NOT NULL DEFAULT 'ATIVO',
		specialty VARCHAR(100) NOT NULL DEFAULT '',
		endpoint_id CHAR(36) NULL,
		custom_prompt TEXT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createUsers); err != nil {
		return err
	}

	createEndpoints := `
	CREATE TABLE IF NOT EXISTS endpoints (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		url VARCHAR(2048) NOT NULL,
		method VARCHAR(10) NOT NULL DEFAULT 'POST',
		auth_type VARCHAR(50) NOT NULL DEFAULT 'BASIC_AUTH',
		credentials_token TEXT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'ATIVO',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createEndpoints); err != nil {
		return err
	}

	createPrompts := `
	CREATE TABLE IF NOT EXISTS prompts (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		category VARCHAR(50) NOT NULL,
		content TEXT NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createPrompts); err != nil {
		return err
	}

	createDiagnoses := `
	CREATE TABLE IF NOT EXISTS diagnoses (
		id CHAR(36) PRIMARY KEY,
		doctor_id CHAR(36) NOT NULL,
		patient_name VARCHAR(191) NOT NULL,
		user_prompt TEXT NOT NULL,
		complementary_data TEXT NULL,
		exams JSON NULL,
		ai_response LONGTEXT NOT NULL,
		model VARCHAR(100) NOT NULL DEFAULT 'simulation',
		status VARCHAR(50) NOT NULL DEFAULT 'ORIGINAL',
		consult_id CHAR(36) NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (doctor_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createDiagnoses); err != nil {
		return err
	}

	createConsults := `
	CREATE TABLE IF NOT EXISTS consults (
		id CHAR(36) PRIMARY KEY,
		patient_name VARCHAR(191) NOT NULL,
		doctor_id CHAR(36) NOT NULL,
		date DATETIME NOT NULL,
		type VARCHAR(50) NOT NULL DEFAULT 'CONSULTA',
		status VARCHAR(50) NOT NULL DEFAULT 'AGENDADA',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (doctor_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createConsults); err != nil {
		return err
	}

	createAudit := `
	CREATE TABLE IF NOT EXISTS audit_logs (
		id CHAR(36) PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		user_name VARCHAR(191) NOT NULL,
		action VARCHAR(50) NOT NULL,
		resource VARCHAR(50) NOT NULL,
		resource_id CHAR(36) NULL,
		details JSON NULL,
		ip_address VARCHAR(100) NOT NULL DEFAULT 'unknown',
		user_agent VARCHAR(512) NOT NULL DEFAULT 'unknown',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createAudit); err != nil {
		return err
	}
	return nil
}

// SeedDefaultAdmin inserts a default administrator if it doesn't exist
func SeedDefaultAdmin() error {
	if db == nil {
		return fmt.Errorf("db is not initialized")
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", "admin@liamed.local").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := db.Exec(
			"INSERT INTO users (id, name, email, password, role) VALUES (?, ?, ?, ?, ?)",
			uuid.NewString(), "Administrador", "admin@liamed.local", "supersecret", "ADMIN",
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// SeedDefaultPrompts inserts the active diagnostic prompt if the category is empty
func SeedDefaultPrompts() error {
	if db == nil {
		return fmt.Errorf("db is not initialized")
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(1) FROM prompts WHERE category = ?", "DIAGNOSTICO").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		content := "### Contexto\n" +
			"Você está em um hospital de clínicas, você interage diretamente com médicos legais e registrados que entendem os termos médicos.\n\n" +
			"### Instruções\n" +
			"Analise os sintomas fornecidos e gere um diagnóstico diferencial completo.\n" +
			"Use terminologia médica apropriada.\n" +
			"Seja preciso e baseado em evidências."
		_, err := db.Exec(
			"INSERT INTO prompts (id, name, category, content, is_active) VALUES (?, ?, ?, ?, 1)",
			uuid.NewString(), "Diagnóstico Diferencial", "DIAGNOSTICO", content,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetUserByEmail retrieves a user by email, nil if not found
func GetUserByEmail(email string) *User {
	if db == nil {
		return nil
	}
	row := db.QueryRow("SELECT id, name, email, password, role, status, IFNULL(specialty,''), endpoint_id, custom_prompt, created_at, updated_at FROM users WHERE email = ? LIMIT 1", email)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Status, &u.Specialty, &u.EndpointID, &u.CustomPrompt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil
	}
	return &u
}

// GetUserByID retrieves a user by its ID, nil if not found
func GetUserByID(id string) *User {
	if db == nil {
		return nil
	}
	row := db.QueryRow("SELECT id, name, email, password, role, status, IFNULL(specialty,''), endpoint_id, custom_prompt, created_at, updated_at FROM users WHERE id = ? LIMIT 1", id)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Status, &u.Specialty, &u.EndpointID, &u.CustomPrompt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil
	}
	return &u
}

// EmailExists reports whether a user with the given email already exists
func EmailExists(email string) (bool, error) {
	if db == nil {
		return false, fmt.Errorf("db is not initialized")
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateUser inserts a new user and returns its generated id
func CreateUser(name, email, password, role string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("db is not initialized")
	}
	id := uuid.NewString()
	_, err := db.Exec(
		"INSERT INTO users (id, name, email, password, role) VALUES (?, ?, ?, ?, ?)",
		id, name, email, password, role,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}
