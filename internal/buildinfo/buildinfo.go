package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Version returns the module version, or "dev" with the VCS revision
// appended when built from a checkout.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return "dev"
	}
	version := info.Main.Version
	if version != "" && version != "(devel)" {
		return version
	}
	if rev := revision(info); rev != "" {
		return fmt.Sprintf("dev (%s)", rev)
	}
	return "dev"
}

func revision(info *debug.BuildInfo) string {
	var rev string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			rev = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if rev == "" {
		return ""
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if dirty {
		rev += "-dirty"
	}
	return rev
}
