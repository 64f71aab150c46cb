// Package build holds the build information injected at link time.
package build

import (
	"runtime"
	"runtime/debug"
)

// Info holds build-time information injected via ldflags.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// Resolve fills unset fields from the module build info embedded by the
// go tool, so `go install` builds still report something useful.
func (i Info) Resolve() Info {
	if i.GoVersion == "" {
		i.GoVersion = runtime.Version()
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return i
	}
	if i.Version == "" || i.Version == "dev" {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			i.Version = v
		}
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.Commit == "" || i.Commit == "unknown" {
				i.Commit = s.Value
			}
		case "vcs.time":
			if i.BuildDate == "" || i.BuildDate == "unknown" {
				i.BuildDate = s.Value
			}
		}
	}
	return i
}

// RepoURL returns the GitHub repository URL.
func RepoURL() string {
	return "https://github.com/bnema/folio"
}
