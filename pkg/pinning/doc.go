// Package pinning uploads media to IPFS pinning services.
//
// Two interchangeable providers are supported: Pinata (primary) and
// Lighthouse (secondary). The Orchestrator routes an upload to the caller's
// preferred provider; a secondary upload that errors, fails, or exceeds a
// bounded wait is retried exactly once against the primary, and the outcome
// records which provider actually served the request.
//
// Adapters running without credentials degrade to a mock mode that returns
// synthetic identifiers, keeping local development usable without API keys.
//
// Example:
//
//	orch := pinning.New(cfg, pinning.WithLogger(log))
//	outcome := orch.Upload(ctx, pinning.File{Name: "logo.png", Content: data}, pinning.ProviderLighthouse)
//	if outcome.Success {
//	    url := pinning.GatewayURL(outcome.CID, outcome.Provider)
//	}
package pinning
