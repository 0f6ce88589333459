package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

var (
	Tag      string
	Revision string
	BuildAt  string
	Dirty    bool
)

func init() {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, setting := range buildInfo.Settings {
		// https://pkg.go.dev/runtime/debug#BuildSetting
		switch setting.Key {
		case "vcs.revision":
			Revision = setting.Value
		case "vcs.time":
			BuildAt = setting.Value
		case "vcs.modified":
			Dirty = setting.Value == "true"
		}
	}
}

// String describes the build as "<tag> <short revision> at <time>", or "dev"
// when built without VCS information.
func String() string {
	if Revision == "" {
		return "dev"
	}

	rev := Revision
	if len(rev) > 7 {
		rev = rev[:7]
	}

	builtAt := BuildAt
	if t, err := time.Parse(time.RFC3339, BuildAt); err == nil {
		builtAt = t.Format("2006-01-02 15:04:05")
	}

	s := fmt.Sprintf("%s %s at %s", Tag, rev, builtAt)
	if Dirty {
		s += " dirty"
	}
	return s
}
