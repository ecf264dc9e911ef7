package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/mtp-labs/bootship/internal/domain"
	"github.com/mtp-labs/bootship/internal/ports"
)

// Prober implements ports.HealthProber with a plain HTTP GET.
type Prober struct {
	client ports.HTTPClient
}

// NewProber creates a prober using the given HTTP client. The client's
// timeout bounds each attempt.
func NewProber(client ports.HTTPClient) *Prober {
	return &Prober{client: client}
}

// Probe issues one GET against the health URL and classifies the result.
// Only a 2xx status counts as ready.
func (p *Prober) Probe(ctx context.Context, url string) domain.ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.ProbeUnreachable
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.ProbeUnreachable
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused across attempts.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return domain.ProbeReady
	}
	return domain.ProbeNotYetReady
}

// TCPPortProber implements ports.PortProber with a bounded local dial.
type TCPPortProber struct {
	timeout time.Duration
}

// NewTCPPortProber creates a port prober with the given dial timeout.
func NewTCPPortProber(timeout time.Duration) *TCPPortProber {
	return &TCPPortProber{timeout: timeout}
}

// Listening reports whether the loopback port accepts a connection.
func (p *TCPPortProber) Listening(port int) bool {
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, p.timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
