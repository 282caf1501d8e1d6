package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/collin12121212/DewLoader/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/collin12121212/DewLoader/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/collin12121212/DewLoader/internal/version.Date={{.Date}}
)
