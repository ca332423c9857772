package invocationlog

import (
	"fmt"
	"os"

	"abilityctl/internal/config"
)

// Open builds the sink set named by configuration. The returned close
// function releases any database connection.
func Open(cfg config.InvocationLogConfig) (Sink, func() error, error) {
	var sinks MultiSink
	var closers []func() error
	closeAll := func() error {
		var first error
		for _, c := range closers {
			if err := c(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	for _, name := range cfg.Sinks {
		switch name {
		case config.SinkLog:
			sinks = append(sinks, LogSink{})
		case config.SinkPostgres:
			dsn := cfg.DSN
			if cfg.DSNEnv != "" {
				if v := os.Getenv(cfg.DSNEnv); v != "" {
					dsn = v
				}
			}
			if dsn == "" {
				_ = closeAll()
				return nil, nil, fmt.Errorf("invocation log sink postgres requires dsn or dsnEnv")
			}
			gs, err := OpenPostgres(dsn)
			if err != nil {
				_ = closeAll()
				return nil, nil, err
			}
			sinks = append(sinks, gs)
			closers = append(closers, gs.Close)
		default:
			_ = closeAll()
			return nil, nil, fmt.Errorf("unknown invocation log sink %q", name)
		}
	}

	switch len(sinks) {
	case 0:
		return Discard, closeAll, nil
	case 1:
		return sinks[0], closeAll, nil
	default:
		return sinks, closeAll, nil
	}
}
