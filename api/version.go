package api

import (
	"runtime/debug"

	"github.com/samber/lo"
)

// Version is the release version; VersionCommit is the VCS revision the
// binary was built from, empty outside module builds.
var (
	Version       = "0.1.0"
	VersionCommit = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	VersionCommit = buildRevision(info.Settings)
}

// buildRevision returns the short revision, marked when the tree was dirty
func buildRevision(settings []debug.BuildSetting) string {
	setting := func(key string) string {
		s, _ := lo.Find(settings, func(s debug.BuildSetting) bool {
			return s.Key == key
		})
		return s.Value
	}

	rev := setting("vcs.revision")
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev != "" && setting("vcs.modified") == "true" {
		rev += "-dirty"
	}
	return rev
}

// UserAgent is sent with every provider request
func UserAgent() string {
	if VersionCommit == "" {
		return "oembed/" + Version
	}
	return "oembed/" + Version + " (" + VersionCommit + ")"
}
