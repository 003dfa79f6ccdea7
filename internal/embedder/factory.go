package embedder

import "fmt"

// Config selects and configures an embedding Provider.
type Config struct {
	// Provider names the implementation: "local" (default) or "mock".
	Provider string
	// BinaryPath overrides the maharajah-embed binary location for the
	// local provider; empty uses ~/.maharajah/bin, downloading on demand.
	BinaryPath string
}

// New builds a Provider from Config.
func New(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalProvider(cfg.BinaryPath), nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q (supported: local, mock)", cfg.Provider)
	}
}
