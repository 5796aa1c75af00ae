// Package version carries process build metadata.
//
// The variables are overridden at build time:
//
//	go build -ldflags "\
//	  -X github.com/relaykit/relay/pkg/version.Version=$(git describe --tags) \
//	  -X github.com/relaykit/relay/pkg/version.GitCommit=$(git rev-parse HEAD) \
//	  -X github.com/relaykit/relay/pkg/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

// Build metadata, set via -ldflags. Defaults apply to untagged dev builds.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)
