package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/settle/internal/config"
	"github.com/melih-ucgun/settle/internal/core"
	"github.com/melih-ucgun/settle/internal/system"
	"github.com/melih-ucgun/settle/internal/transport"
	"github.com/melih-ucgun/settle/internal/ui"
)

// Exit codes. Fatal preconditions (lock held, missing privilege, invalid
// mandatory input) get their own code so wrappers can tell them apart from
// generic failures.
const (
	exitOK           = 0
	exitFailure      = 1
	exitPrecondition = 2
	exitInterrupted  = 130
)

var rootCmd = &cobra.Command{
	Use:   "settle",
	Short: "Converge a Debian workstation to its declared state.",
	Long:  `Settle provisions a Debian workstation through idempotent, verifiable steps: user, hostname, packages, Docker, dotfiles, Node.`,
}

var verboseCount int

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Optional .env next to the binary; missing file is fine.
	_ = godotenv.Load()

	// PTerm output to Stderr (to keep Stdout clean for piping)
	pterm.SetDefaultOutput(os.Stderr)

	rootCmd.PersistentFlags().StringP("config", "c", "settle.yaml", "config file path")
	rootCmd.PersistentFlags().String("host", "", "remote host name (from the hosts list)")
	rootCmd.PersistentFlags().CountVarP(&verboseCount, "verbose", "v", "Increase verbosity level (-v, -vv)")
}

// setup loads the manifest and builds a SystemContext bound either to the
// local host or, with --host, to an SSH target. The returned closer tears
// down the transport.
func setup(cmd *cobra.Command, dryRun bool) (*core.SystemContext, *config.Config, func(), error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	hostName, _ := cmd.Flags().GetString("host")

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}

	base, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx := core.NewSystemContext(base, dryRun)
	ctx.UI = ui.NewPtermUI()

	level := core.LevelInfo
	switch {
	case verboseCount >= 2:
		level = core.LevelTrace
	case verboseCount == 1:
		level = core.LevelDebug
	}
	ctx.Logger = core.NewFileLogger(os.Stderr, cfg.LogPath(), level)

	closer := func() { cancel() }

	if hostName != "" {
		host, err := cfg.FindHost(hostName)
		if err != nil {
			cancel()
			return nil, nil, nil, err
		}
		var conn *transport.SSHTransport
		err = ctx.UI.Spinner("connecting to "+host.Name, func() error {
			var derr error
			conn, derr = transport.Dial(host)
			return derr
		})
		if err != nil {
			cancel()
			return nil, nil, nil, err
		}
		ctx.Runner = conn.Runner()
		ctx.FS = conn.FS()
		ctx.User = host.User
		closer = func() {
			conn.Close()
			cancel()
		}
	}

	system.Detect(ctx)
	ctx.TargetUser = cfg.User.Name
	ctx.TargetHome = system.TargetHome(ctx, cfg.User.Name)

	return ctx, cfg, closer, nil
}
