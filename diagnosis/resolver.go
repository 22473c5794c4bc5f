package diagnosis

import "liamed-backend/endpoints"

// Tier identifies which answer source served a diagnosis request.
type Tier string

const (
	// TierCustom is the doctor's own configured endpoint.
	TierCustom Tier = "custom-endpoint"
	// TierSystem is the deployment-wide OpenAI credential.
	TierSystem Tier = "system-openai"
	// TierSimulated is the local generator used when nothing is configured.
	TierSimulated Tier = "simulation-fallback"
)

// Resolution is the outcome of provider resolution. Endpoint is set only for
// TierCustom; SystemKey only for TierSystem.
type Resolution struct {
	Tier      Tier
	Endpoint  *endpoints.Endpoint
	SystemKey string
}

// Resolve picks the provider tier for one request, in strict priority order:
// the doctor's enabled endpoint, then the system OpenAI key, then simulation.
// It is a pure function of its inputs and cannot fail; reachability of a
// custom endpoint is only discovered at dispatch time.
func Resolve(userEndpoint *endpoints.Endpoint, systemKey string) Resolution {
	if userEndpoint.Active() {
		return Resolution{Tier: TierCustom, Endpoint: userEndpoint}
	}
	if systemKey != "" {
		return Resolution{Tier: TierSystem, SystemKey: systemKey}
	}
	return Resolution{Tier: TierSimulated}
}
