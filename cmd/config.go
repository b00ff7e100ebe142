package cmd

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

type configFile struct {
	API     apiSection     `toml:"api"`
	Session sessionSection `toml:"session"`
	Cache   cacheSection   `toml:"cache"`
	Log     logSection     `toml:"log"`
	Metrics metricsSection `toml:"metrics"`
}

type apiSection struct {
	BaseURL  string `toml:"base_url"`
	BasePath string `toml:"base_path"`
	Timeout  string `toml:"timeout"`
}

type sessionSection struct {
	Path      string `toml:"path"`
	Backend   string `toml:"backend"`
	PassEntry string `toml:"pass_entry"`
}

type cacheSection struct {
	Retention string `toml:"retention"`
	StaleTime string `toml:"stale_time"`
}

type logSection struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

type metricsSection struct {
	Addr string `toml:"addr"`
}

func newConfigCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.cfg
			encoded, err := toml.Marshal(configFile{
				API: apiSection{
					BaseURL:  cfg.API.BaseURL,
					BasePath: cfg.API.BasePath,
					Timeout:  cfg.API.Timeout.String(),
				},
				Session: sessionSection{
					Path:      cfg.Session.Path,
					Backend:   cfg.Session.Backend,
					PassEntry: cfg.Session.PassEntry,
				},
				Cache: cacheSection{
					Retention: cfg.Cache.Retention.String(),
					StaleTime: cfg.Cache.StaleTime.String(),
				},
				Log: logSection{
					Level:  cfg.Log.Level,
					Format: cfg.Log.Format,
					Output: cfg.Log.Output,
				},
				Metrics: metricsSection{Addr: cfg.Metrics.Addr},
			})
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(encoded)
			return err
		},
	}
}
