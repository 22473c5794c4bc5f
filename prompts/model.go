package prompts

import "time"

// CategoryDiagnostic is the registry category consumed by the diagnosis flow.
const CategoryDiagnostic = "DIAGNOSTICO"

type Prompt struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
