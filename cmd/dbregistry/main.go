package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dbregistry",
		Short: "Run SQL against named database connections",
		Long:  "dbregistry — execute statements and queries against connections declared in a .connections.yaml file.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "connections file (default: DBREGISTRY_CONFIG, then default locations)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newExecCmd())
	rootCmd.AddCommand(newQueryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfigPath prefers the --config flag, then DBREGISTRY_CONFIG from
// the environment. Empty means the library scans its default locations.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	v := viper.New()
	v.SetEnvPrefix("DBREGISTRY")
	v.AutomaticEnv()
	return v.GetString("config")
}

// parseParams turns repeated key=value flags into a named parameter map.
// Values stay strings; the binder types them as text.
func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: want key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}
