package endpoints

import (
	"net/http"
	"strings"
)

// headerStrategy writes the auth header(s) for one declared auth type.
type headerStrategy func(h http.Header, token string)

// Closed strategy table keyed by declared auth type. Adding a provider auth
// scheme means adding one entry here; dispatch code never switches on raw
// strings.
var authStrategies = map[string]headerStrategy{
	AuthBearer:      bearerHeader,
	AuthBearerToken: bearerHeader,
	AuthJWT:         bearerHeader,
	AuthBasic: func(h http.Header, token string) {
		// The stored credential is trusted to be base64(user:pass) already.
		if strings.HasPrefix(token, "Basic ") {
			h.Set("Authorization", token)
			return
		}
		h.Set("Authorization", "Basic "+token)
	},
	AuthAPIKey: func(h http.Header, token string) {
		// Defaulting to x-api-key, though this varies wildly.
		h.Set("x-api-key", token)
	},
	AuthNone: func(h http.Header, token string) {},
}

func bearerHeader(h http.Header, token string) {
	h.Set("Authorization", "Bearer "+token)
}

// ApplyAuth sets the auth header for the declared auth type. An empty token
// yields no header at all. Unknown auth types send the raw token verbatim.
func ApplyAuth(h http.Header, authType, token string) {
	token = strings.TrimSpace(token)
	if token == "" || authType == "" {
		return
	}
	if strategy, ok := authStrategies[authType]; ok {
		strategy(h, token)
		return
	}
	h.Set("Authorization", token)
}
