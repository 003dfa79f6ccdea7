// Package embedder wraps a local text-embedding model behind a small
// role-aware capability, matching the teacher's internal/embed package
// shape (Provider interface, local subprocess implementation, mock for
// tests) generalized from a single "query/passage" mode to the document
// vs. query retrieval-prefix distinction the core's Embedder capability
// requires.
package embedder

import "context"

// Role selects which retrieval-prefix convention an Embed call uses.
type Role string

const (
	// RoleDocument embeds content meant to be indexed (chunk content and
	// summaries). The raw text is used unmodified.
	RoleDocument Role = "document"

	// RoleQuery embeds a user's search prompt. Models that require a
	// retrieval prefix (e.g. CodeRankEmbed) apply it internally for this
	// role only.
	RoleQuery Role = "query"
)

// Provider converts text into fixed-dimension dense vectors. Implementations
// must serialize concurrent calls internally: the underlying model is
// shared mutable state and callers must not assume parallel speedup.
type Provider interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string, role Role) ([][]float32, error)

	// Dimensions reports the fixed vector width this provider produces.
	Dimensions() int

	// Close releases the provider's resources (stops a subprocess, etc).
	Close() error
}
