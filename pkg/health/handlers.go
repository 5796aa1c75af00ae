package health

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/relaykit/relay/pkg/httputil"
	"github.com/relaykit/relay/pkg/version"
)

// BuildInfo is immutable process metadata captured at startup.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// CurrentBuildInfo returns the build metadata injected via -ldflags.
func CurrentBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   version.Version,
		GitCommit: version.GitCommit,
		BuildDate: version.BuildDate,
	}
}

// healthcheckResponse is the wire shape of GET /healthcheck.
type healthcheckResponse struct {
	BuildDate      string    `json:"build_date"`
	RuntimeVersion string    `json:"runtime_version"`
	Hostname       string    `json:"hostname"`
	Launch         time.Time `json:"launch"`
	Uptime         string    `json:"uptime"`
	Version        string    `json:"version"`
	GitCommit      string    `json:"git_commit"`
}

// Handler serves the healthcheck endpoint.
type Handler struct {
	build    BuildInfo
	hostname string
	launch   time.Time
}

// NewHandler creates a healthcheck handler. Launch time is captured at
// construction, so create the handler once during startup.
func NewHandler(build BuildInfo) *Handler {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &Handler{
		build:    build,
		hostname: hostname,
		launch:   time.Now().UTC(),
	}
}

// Healthcheck handles GET /healthcheck. It always answers 200: process
// liveness is independent of dependency health, which is reported through
// the dependency gate and metrics instead.
func (h *Handler) Healthcheck(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, healthcheckResponse{
		BuildDate:      h.build.BuildDate,
		RuntimeVersion: runtime.Version(),
		Hostname:       h.hostname,
		Launch:         h.launch,
		Uptime:         time.Since(h.launch).String(),
		Version:        h.build.Version,
		GitCommit:      h.build.GitCommit,
	})
}
