package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/settle/internal/catalog"
	"github.com/melih-ucgun/settle/internal/core"
	"github.com/melih-ucgun/settle/internal/state"
	"github.com/melih-ucgun/settle/internal/system"
	"github.com/melih-ucgun/settle/internal/verify"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Converge the host to the manifest",
	Long:  `Runs every configured step in order, skipping resources already in their desired state, then re-probes everything and prints the verification report.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Lock and ledger are removed on every exit path, so the body must
		// return instead of calling os.Exit itself.
		os.Exit(runApply(cmd))
	},
}

func runApply(cmd *cobra.Command) int {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	hostName, _ := cmd.Flags().GetString("host")

	ctx, cfg, closer, err := setup(cmd, dryRun)
	if err != nil {
		pterm.Error.Printfln("startup failed: %v", err)
		return exitFailure
	}
	defer closer()

	// Fatal preconditions, checked once before any step. Failures here
	// abort without touching the host.
	if hostName == "" && !dryRun && !system.IsRoot() {
		pterm.Error.Println("apply needs root privileges (use --dry-run to preview)")
		return exitPrecondition
	}

	lock := state.NewLock(cfg.LockPath())
	if err := lock.Acquire(); err != nil {
		pterm.Error.Printfln("%v", err)
		if errors.Is(err, state.ErrLockHeld) {
			return exitPrecondition
		}
		return exitFailure
	}
	defer lock.Release()

	ledger := state.NewLedger(cfg.LedgerPath())
	defer ledger.Clear()

	runID := uuid.New().String()
	backups := state.NewBackupManager(ctx.FS, cfg.BackupRoot(), runID)

	steps, err := catalog.Build(ctx, cfg)
	if err != nil {
		pterm.Error.Printfln("catalogue error: %v", err)
		return exitFailure
	}

	ctx.UI.Title("settle apply")
	engine := core.NewEngine(ctx, backups, ledger)
	report := engine.Run(runID, steps)

	if err := ctx.Err(); err != nil {
		pterm.Error.Println("run interrupted")
		return exitInterrupted
	}

	ctx.UI.Section("Verification")
	var vreport *verify.Report
	if dryRun {
		pterm.Info.Println("dry-run: verification skipped")
		vreport = &verify.Report{}
	} else {
		vreport = verify.Run(ctx, catalog.Checks(ctx, cfg))
		vreport.Print(ctx.UI)
	}

	printSummary(ctx, cfg.LogPath(), report)

	if vreport.Errors > 0 || report.Failed() > 0 {
		return exitFailure
	}
	return exitOK
}

func printSummary(ctx *core.SystemContext, logPath string, report *core.RunReport) {
	executed := report.Executed()
	failed := report.Failed()
	skipped := len(report.Results) - executed - failed

	ctx.UI.Printf("run %s: %d changed, %d already satisfied, %d failed\n",
		report.RunID, executed, skipped, failed)

	if failed > 0 {
		for _, res := range report.Results {
			if res.Action != core.ActionFailed {
				continue
			}
			ctx.UI.Error(fmt.Sprintf("%s (%s): %v", res.Step, res.Resource, res.Err))
		}
		ctx.UI.Printf("details in %s\n", logPath)
	}
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().Bool("dry-run", false, "probe only, suppress all mutations")
}
