package version

// Version is set by the build with -ldflags "-X github.com/c9s/barfeed/pkg/version.Version=..."
var Version = "v0.1.0-dev"
