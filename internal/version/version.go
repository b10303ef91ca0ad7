package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Set at build time with -ldflags "-X github.com/franra18/ReViews/internal/version.Version=..."
var (
	App       = "ReViews API"
	Version   string
	GitCommit string
	BuildTime string
)

// Info is the resolved build metadata
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get resolves build metadata. Values missing from ldflags come from the
// module build info embedded by the go toolchain.
var Get = sync.OnceValue(func() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			}
		}
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	return info
})

// PrintVersion prints the version information
func PrintVersion() {
	info := Get()
	fmt.Printf("%s version %s\n", App, info.Version)
	if info.GitCommit != "" {
		fmt.Printf("Git commit: %s\n", shortCommit(info.GitCommit))
	}
	if info.BuildTime != "" {
		fmt.Printf("Build time: %s\n", info.BuildTime)
	}
	fmt.Printf("Go version: %s\n", info.GoVersion)
	fmt.Printf("Built for: %s\n", info.Platform)
}

// String returns a one-line version string for logs.
func String() string {
	info := Get()
	if info.GitCommit != "" {
		return info.Version + " (" + shortCommit(info.GitCommit) + ")"
	}
	return info.Version
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
