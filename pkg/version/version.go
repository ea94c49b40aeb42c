package version

// Version information set at build time via ldflags
var (
	// Name is the tool name shown in the banner
	Name = "ping-network"
	// Version is the semantic version of the build
	Version = "v0.1.0"
)

// String returns the tool name with its version
func String() string {
	return Name + " " + Version
}
