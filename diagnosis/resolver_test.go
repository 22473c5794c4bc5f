package diagnosis

import (
	"testing"

	"liamed-backend/endpoints"
)

func TestResolveTotality(t *testing.T) {
	active := &endpoints.Endpoint{ID: "ep-1", URL: "https://ai.example.com", Status: endpoints.StatusActive}
	disabled := &endpoints.Endpoint{ID: "ep-2", URL: "https://ai.example.com", Status: "INATIVO"}

	cases := []struct {
		name      string
		endpoint  *endpoints.Endpoint
		systemKey string
		want      Tier
	}{
		{"active endpoint wins over system key", active, "sk-test", TierCustom},
		{"active endpoint without system key", active, "", TierCustom},
		{"disabled endpoint falls to system", disabled, "sk-test", TierSystem},
		{"nil endpoint falls to system", nil, "sk-test", TierSystem},
		{"disabled endpoint without key simulates", disabled, "", TierSimulated},
		{"nothing configured simulates", nil, "", TierSimulated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.endpoint, tc.systemKey)
			if got.Tier != tc.want {
				t.Fatalf("Resolve tier = %s, want %s", got.Tier, tc.want)
			}
			if got.Tier == TierCustom && got.Endpoint == nil {
				t.Fatal("custom resolution must carry the endpoint")
			}
			if got.Tier == TierSystem && got.SystemKey == "" {
				t.Fatal("system resolution must carry the key")
			}
		})
	}
}
