package tui

import "fmt"

// BuildInfo holds build-time metadata for display in the TUI.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// helpTitle titles the help dialog, naming the build when one is known.
func (b BuildInfo) helpTitle() string {
	if b.Version == "" {
		return "Keyboard Shortcuts"
	}
	if b.Commit == "" {
		return fmt.Sprintf("Keyboard Shortcuts · dailyflow %s", b.Version)
	}
	return fmt.Sprintf("Keyboard Shortcuts · dailyflow %s (%s)", b.Version, b.Commit)
}
