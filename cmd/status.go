package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/settle/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show lock holder and last attempted step",
	Long:  `Reads the run-control files only: whether a run is active (and its PID) and which step the last run attempted. Useful after a crash, before re-running apply.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cfg, closer, err := setup(cmd, true)
		if err != nil {
			pterm.Error.Printfln("startup failed: %v", err)
			os.Exit(exitFailure)
		}
		defer closer()

		lock := state.NewLock(cfg.LockPath())
		if pid := lock.Holder(); pid != 0 {
			ctx.UI.Warning(fmt.Sprintf("a run is active (pid %d, lock %s)", pid, cfg.LockPath()))
		} else {
			ctx.UI.Info("no active run")
		}

		ledger := state.NewLedger(cfg.LedgerPath())
		if step, ok := ledger.Read(); ok {
			ctx.UI.Warning(fmt.Sprintf("last run ended during step %q (ledger %s)", step, cfg.LedgerPath()))
		} else {
			ctx.UI.Info("no interrupted run on record")
		}

		ctx.UI.Printf("backups: %s\nlog: %s\n", cfg.BackupRoot(), cfg.LogPath())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
