package domain

// ServiceHandle references the running tracking server. The launcher owns
// it while polling; ownership transfers to the orchestrator once readiness
// is confirmed. Bootship never manages the process's lifecycle beyond that:
// it keeps running as a sibling of the foreground service.
type ServiceHandle struct {
	// PID is the spawned process's id.
	PID int

	// LogPath is the file receiving the process's combined output.
	LogPath string

	// Port is the TCP port the service was told to bind.
	Port int
}

// ProbeResult classifies one readiness probe attempt. Transient; produced
// per attempt and never persisted.
type ProbeResult int

const (
	// ProbeUnreachable means the endpoint could not be contacted at all.
	ProbeUnreachable ProbeResult = iota

	// ProbeNotYetReady means the endpoint answered with a non-2xx status.
	ProbeNotYetReady

	// ProbeReady means the endpoint answered 2xx.
	ProbeReady
)

// String returns a human-readable representation of the result.
func (r ProbeResult) String() string {
	switch r {
	case ProbeUnreachable:
		return "Unreachable"
	case ProbeNotYetReady:
		return "NotYetReady"
	case ProbeReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// Identity is the unprivileged identity used for the optional ownership
// fix and privilege drop.
type Identity struct {
	UID      int
	GID      int
	Username string
}
