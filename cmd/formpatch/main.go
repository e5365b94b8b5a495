package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rflorenc/formpatch/internal/config"
	"github.com/rflorenc/formpatch/internal/console"
	"github.com/rflorenc/formpatch/internal/credentials"
	"github.com/rflorenc/formpatch/internal/platform"
	"github.com/rflorenc/formpatch/internal/remediation"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Every reachable path exits 0; failures are reported on stdout.
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stdout, err)
	}
}

// newRootCmd builds the command with its own viper instance so tests can run
// it repeatedly.
func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "formpatch",
		Short: "Enable createNewContactForNewEmail on HubSpot marketing forms",
		Long: "Lists the HubSpot marketing forms reachable with a private app token (or fetches a single form in " +
			"test mode), finds the forms where createNewContactForNewEmail is not enabled and, after confirmation, " +
			"patches them.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Verbose, errOut)
			defer func() { _ = logger.Sync() }()

			ui := console.New(in, out)
			runner := &remediation.Runner{
				UI:          ui,
				Credentials: credentials.NewStore(cfg.CredentialsFile),
				NewForms: func(token string) platform.FormsAPI {
					return platform.NewFormsAPI(platform.Options{
						BaseURL: cfg.BaseURL,
						Token:   token,
						Pace:    cfg.Pace,
						Logger:  logger,
					}, ui, cfg.PageSize)
				},
				Logger: logger,
			}
			runner.Execute(cmd.Context())
			return nil
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	config.BindFlags(cmd.Flags(), v)
	return cmd
}

// newLogger builds a JSON logger on w: warnings and above by default, debug
// when verbose.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg.EncoderConfig),
		zapcore.AddSync(w),
		cfg.Level,
	)
	return zap.New(core)
}
