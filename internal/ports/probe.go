package ports

import (
	"context"

	"github.com/mtp-labs/bootship/internal/domain"
)

// HealthProber performs one readiness probe attempt against a service's
// health endpoint. Any 2xx response is the only success signal.
type HealthProber interface {
	Probe(ctx context.Context, url string) domain.ProbeResult
}

// PortProber checks whether a local TCP port is accepting connections.
// This is a weaker readiness signal used only for diagnostic logging,
// never for success determination.
type PortProber interface {
	Listening(port int) bool
}
