// Package config provides configuration management for the catalog CLI.
package config

// Default configuration values for catalog.
const (
	// DefaultOutput is the default output mode for commands that render
	// result lists ("plain" or "json").
	DefaultOutput = "plain"

	// DefaultIncludeHidden controls whether dot-prefixed entries are
	// scanned by default.
	DefaultIncludeHidden = false

	// DefaultOneFilesystem controls whether scans refuse to cross device
	// boundaries by default.
	DefaultOneFilesystem = true

	// DefaultTopDirs is the default top-K capacity for directory reports.
	DefaultTopDirs = 15

	// DefaultTopFiles is the default top-K capacity for file reports.
	DefaultTopFiles = 15
)

// DefaultExcludes contains exclusion rules applied to new configurations.
// Relative entries are gitignore-style patterns rooted at each scan root;
// entries starting with "/" or "~/" are canonical-prefix excludes.
var DefaultExcludes = []string{
	"~/.cache",
	"~/.local/share/Trash",
	"**/.git/**",
	"**/node_modules/**",
	"**/target/**",
	"**/dist/**",
	"**/build/**",
}

// Preset root lists for `catalog init --preset`. Only entries that exist
// on the machine are kept when the preset is applied.
var presetRoots = map[string][]string{
	"home": {
		"~/Downloads",
		"~/Desktop",
		"~/Documents",
		"~/Pictures",
		"~/Videos",
		"~/.config",
		"~/.local/bin",
		"~/bin",
	},
	"system": {
		"/usr/local",
		"/opt",
		"/etc",
		"/var/log",
	},
}

// Presets returns the known preset names.
func Presets() []string {
	return []string{"home", "system"}
}
