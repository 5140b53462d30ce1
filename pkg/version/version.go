package version

// Build variables injected via ldflags, e.g.:
// -X 'github.com/equipsight/equipsight/pkg/version.Version=v1.0.0'
var (
	// Version is the semantic version of the binary
	Version = "unknown"
	// CommitHash is the git commit hash used to build the binary
	CommitHash = "unknown"
	// BuildDate is the timestamp when the binary was built (RFC3339)
	BuildDate = "unknown"
)

// Info returns build information in a structured format
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
}

// Get returns the current build information
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
	}
}
