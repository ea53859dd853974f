package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/Seednode/crazyeights/games/crazyeights"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind       string
	envFile    string
	legacyPlay bool
	name       string
	port       int
	prefix     string
	profile    bool
	server     string
	status     bool
	tlsCert    string
	tlsKey     string
	verbose    bool
	version    bool
	wildRank   string
}

func (c *Config) validate() error {
	u, err := url.Parse(c.server)
	if err != nil {
		return fmt.Errorf("invalid --server: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("invalid --server (scheme must be ws or wss): %s", c.server)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid --server (missing host): %s", c.server)
	}
	if c.name != "" {
		if err := crazyeights.ValidateName(c.name); err != nil {
			return fmt.Errorf("invalid --name %q: %w", c.name, err)
		}
	}
	if !crazyeights.ValidRank(c.wildRank) {
		return fmt.Errorf("invalid --wild-rank (must be one of %s): %q", strings.Join(crazyeights.Ranks, ", "), c.wildRank)
	}
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.status && (c.port < 1 || c.port > 65535) {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) rules() crazyeights.Rules {
	return crazyeights.NewRules(c.wildRank)
}

// loadEnvFile reads KEY=value pairs into the environment before viper binds
// flags. A missing default .env is not an error; a missing explicit one is.
func loadEnvFile(path string, explicit bool) error {
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// envFileFromArgs finds --env-file before cobra parses flags, since the
// file has to be loaded before flag defaults are resolved from the environment.
func envFileFromArgs(args []string) (string, bool) {
	for i, a := range args {
		switch {
		case strings.HasPrefix(a, "--env-file="):
			return strings.TrimPrefix(a, "--env-file="), true
		case a == "--env-file" && i+1 < len(args):
			return args[i+1], true
		}
	}
	if v := os.Getenv("CRAZYEIGHTS_ENV_FILE"); v != "" {
		return v, true
	}
	return ".env", false
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CRAZYEIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "crazyeights",
		Short:         "A terminal client for multi-player Crazy Eights tables.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return Run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "127.0.0.1", "address to bind the status page to (env: CRAZYEIGHTS_BIND)")
	fs.StringVar(&cfg.envFile, "env-file", ".env", "file of KEY=value pairs to load into the environment (env: CRAZYEIGHTS_ENV_FILE)")
	fs.BoolVar(&cfg.legacyPlay, "legacy-play", false, "send plays as play_card instead of move, for older dealers (env: CRAZYEIGHTS_LEGACY_PLAY)")
	fs.StringVarP(&cfg.name, "name", "n", "", "join the table with this name on startup (env: CRAZYEIGHTS_NAME)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to serve the status page on (env: CRAZYEIGHTS_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all status URLs, for use behind reverse proxy (env: CRAZYEIGHTS_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers on the status server (env: CRAZYEIGHTS_PROFILE)")
	fs.StringVarP(&cfg.server, "server", "s", "ws://localhost:8765", "websocket URL of the dealer (env: CRAZYEIGHTS_SERVER)")
	fs.BoolVar(&cfg.status, "status", false, "serve a read-only status page of the table (env: CRAZYEIGHTS_STATUS)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate for the status page (env: CRAZYEIGHTS_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile for the status page (env: CRAZYEIGHTS_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: CRAZYEIGHTS_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: CRAZYEIGHTS_VERSION)")
	fs.StringVarP(&cfg.wildRank, "wild-rank", "w", "8", "rank that is playable on anything and declares a suit (env: CRAZYEIGHTS_WILD_RANK)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("crazyeights v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
