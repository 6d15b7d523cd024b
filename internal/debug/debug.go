// Package debug holds env-gated debug logging for the jsondiff command.
// channels are switched on by setting JSONDIFF_DEBUG_<CHANNEL> to a true value
package debug

import (
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

type debug struct {
	Diff  bool
	Patch bool
	CLI   bool
}

var (
	d   *debug
	mu  sync.Mutex
	log *zap.Logger
)

func init() {
	d = &debug{}
	d.Diff = boolEnv("JSONDIFF_DEBUG_DIFF")
	d.Patch = boolEnv("JSONDIFF_DEBUG_PATCH")
	d.CLI = boolEnv("JSONDIFF_DEBUG_CLI")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Diff() bool {
	mu.Lock()
	defer mu.Unlock()
	return d.Diff
}
func Patch() bool {
	mu.Lock()
	defer mu.Unlock()
	return d.Patch
}
func CLI() bool {
	mu.Lock()
	defer mu.Unlock()
	return d.CLI
}

// EnableAll switches every channel on, as the --debug flag does
func EnableAll() {
	mu.Lock()
	defer mu.Unlock()
	d.Diff, d.Patch, d.CLI = true, true, true
	log = nil
}

// Logger returns the logger for a channel. disabled channels get a no-op
// logger, so call sites never need to check
func Logger(enabled bool) *zap.Logger {
	if !enabled {
		return zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		l, err := cfg.Build()
		if err != nil {
			return zap.NewNop()
		}
		log = l
	}
	return log
}
