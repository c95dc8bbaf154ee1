package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/ghostytools/wintweak/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/ghostytools/wintweak/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/ghostytools/wintweak/internal/version.Date={{.Date}}
)
