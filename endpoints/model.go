package endpoints

import "time"

// Declared auth types for a configured endpoint. Unknown values fall through
// to a raw Authorization header at dispatch time.
const (
	AuthBearer      = "BEARER"
	AuthBearerToken = "BEARER_TOKEN" // legacy frontend value
	AuthBasic       = "BASIC_AUTH"
	AuthAPIKey      = "API_KEY"
	AuthJWT         = "JWT"
	AuthNone        = "NONE"
)

// StatusActive marks an endpoint eligible for provider resolution.
const StatusActive = "ATIVO"

type Endpoint struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	URL              string    `json:"url"`
	Method           string    `json:"method"`
	AuthType         string    `json:"authType"`
	CredentialsToken string    `json:"-"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Active reports whether this endpoint should win provider resolution.
func (e *Endpoint) Active() bool {
	return e != nil && e.Status == StatusActive
}
