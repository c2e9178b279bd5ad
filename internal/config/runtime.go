package config

import (
	"strings"

	"fortio.org/log"

	mruntime "github.com/gosuda/minic/runtime"
)

// RuntimeOptions translates the [run] section into VM options.
func (c *Config) RuntimeOptions() []mruntime.Option {
	opts := []mruntime.Option{}
	if c.Run.MaxDepth != nil {
		opts = append(opts, mruntime.WithMaxDepth(*c.Run.MaxDepth))
	}
	if c.Run.BareInput == "noop" {
		opts = append(opts, mruntime.WithBareInput(mruntime.BareInputNoop))
	} else {
		opts = append(opts, mruntime.WithBareInput(mruntime.BareInputDiscard))
	}
	return opts
}

// ApplyLogging sets the process log level from [log] level.
func (c *Config) ApplyLogging() error {
	level := strings.ToLower(c.Log.Level)
	if level == "warn" {
		level = "warning"
	}
	return log.SetLogLevelStr(level)
}
