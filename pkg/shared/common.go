package shared

import (
	"github.com/spf13/pflag"
)

// GenericResult is the envelope for a single launch: the arguments it ran
// with, its result payload, and an OK/FAILED status with a message.
type GenericResult struct {
	Args    interface{} `json:"args"`
	Result  interface{} `json:"result"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
}

// GenericLaunchesResult aggregates the envelopes of one command run.
type GenericLaunchesResult struct {
	Launches []GenericResult `json:"launches"`
}

// Versions holds build-time version information.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
}

// HasFlags reports whether any flag in the set was explicitly changed.
func HasFlags(flags *pflag.FlagSet) bool {
	changed := false
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			changed = true
		}
	})
	return changed
}
