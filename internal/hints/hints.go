// Package hints provides actionable hints appended to CLI error messages.
// Every hint is formatted as "\n  hint: <text>".
package hints

import (
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-fileloader/internal/fileutil"
)

// IsInContainer reports whether the process runs inside Docker.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser launch or connection errors.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "use --no-sandbox or set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "use --browser-bin or set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint for batches that still had pending resources
// when the deadline passed.
func ForTimeout(pending int) string {
	if pending == 1 {
		return format("1 resource never signaled; check the URL or raise --timeout")
	}
	return format(strconv.Itoa(pending) + " resources never signaled; check the URLs or raise --timeout")
}

// ForConfigNotFound returns hints for a missing manifest, suggesting
// --config or the user config location that was searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), ".config/go-fileloader") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForUnsupportedResource returns the list of loadable extensions.
func ForUnsupportedResource() string {
	return format("only paths ending in .js or .css are injected; drop any ?query or #fragment")
}

// ForHostPage returns hints for a host page that could not be prepared.
func ForHostPage() string {
	return format("use --page with a .md or .html file, or --url for a served page")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
