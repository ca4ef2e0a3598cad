package version

import (
	"runtime"
	"runtime/debug"
)

// ServiceName identifies this service in health and version responses.
const ServiceName = "crash-event-service"

// Set with -ldflags "-X crash-event-service/version.Version=...".
var (
	Version = "dev"
	Commit  = ""
)

type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	CommitAt  string `json:"commitTime,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
	GoVersion string `json:"goVersion"`
}

// Get reports the running build. VCS details embedded by the Go toolchain
// fill in whatever the linker flags left empty.
func Get() Info {
	info := Info{
		Service:   ServiceName,
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range build.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			info.CommitAt = s.Value
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}
