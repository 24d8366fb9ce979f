package assets

import (
	"embed"
)

//go:embed default_manifest.json
var FS embed.FS

// DefaultManifest returns the embedded gallery manifest used when no
// external manifest file is configured.
func DefaultManifest() ([]byte, error) {
	return FS.ReadFile("default_manifest.json")
}
