package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/The-Coder-x/TypeWar/internal/config"
	"github.com/The-Coder-x/TypeWar/internal/server"
)

const releaseVersion = "0.1.0"

func newCmd() *cobra.Command {
	cfg := config.Default()

	v := viper.New()
	v.SetEnvPrefix("TYPEWAR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "typewar",
		Short:         "A multiplayer typing-race server: shared rooms, live progress, fair rankings.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return server.Run(cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.Bind, "bind", "b", cfg.Bind, "address to bind to (env: TYPEWAR_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on (env: TYPEWAR_PORT)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "postgres DSN for the persistence mirror; empty runs in-memory only (env: TYPEWAR_DATABASE_URL)")
	fs.DurationVar(&cfg.RaceDuration, "race-duration", cfg.RaceDuration, "fixed race length (env: TYPEWAR_RACE_DURATION)")
	fs.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "base URL encoded into room share QR codes (env: TYPEWAR_PUBLIC_URL)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("typewar v{{.Version}}\n")

	return cmd
}
