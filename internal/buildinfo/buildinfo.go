// Package buildinfo stores build-time metadata shared across packages.
package buildinfo

// Set via ldflags during build.
var (
	Version = "dev"
	Commit  = "none"
)

// String renders the version for display, including the commit when known.
func String() string {
	if Commit == "" || Commit == "none" {
		return Version
	}

	return Version + " (" + Commit + ")"
}
