// Package version reports the CLI build version and advises when a newer release is published.
package version

// Version is the running build's version, set at link time with
// -ldflags "-X github.com/cord-sdk/cord-cli/internal/version.Version=1.2.3".
var Version = "dev"

// DevVersion marks an unreleased build; such builds are never told to update.
const DevVersion = "dev"
