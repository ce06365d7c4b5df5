package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"scrape-etl/lib/configutil"
	"scrape-etl/lib/etl"
	"scrape-etl/lib/telemetry"
	"scrape-etl/services/banks"
	"scrape-etl/services/laliga"
)

type HttpConfig struct {
	// a duration string such as "30s", empty means no timeout
	Timeout   string `json:"timeout"`
	UserAgent string `json:"user_agent"`
	DumpDir   string `json:"dump_dir"`
}

func (c HttpConfig) FetcherOptions() (etl.FetcherOptions, error) {
	opts := etl.FetcherOptions{
		UserAgent: c.UserAgent,
		DumpDir:   c.DumpDir,
	}
	if c.Timeout != "" {
		timeout, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return etl.FetcherOptions{}, fmt.Errorf("http.timeout: %w", err)
		}
		opts.Timeout = timeout
	}
	return opts, nil
}

type Config struct {
	LogFile   string           `json:"log_file"`
	Telemetry telemetry.Config `json:"telemetry"`
	Http      HttpConfig       `json:"http"`
	Banks     banks.Config     `json:"banks"`
	Laliga    laliga.Config    `json:"laliga"`
}

func Default() Config {
	return Config{
		LogFile: "code_log.txt",
		Banks:   banks.DefaultConfig(),
		Laliga:  laliga.DefaultConfig(),
	}
}

// Load merges the config file at path (and its .local override) over the
// defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg, err := configutil.ReadConfig(path, Default())
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file found, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}
