package cmd

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/settle/internal/catalog"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview the changes apply would make",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cfg, closer, err := setup(cmd, true)
		if err != nil {
			pterm.Error.Printfln("startup failed: %v", err)
			os.Exit(exitFailure)
		}
		defer closer()

		changes, err := catalog.Plan(ctx, cfg)
		if err != nil {
			pterm.Error.Printfln("plan failed: %v", err)
			os.Exit(exitFailure)
		}

		if len(changes) == 0 {
			ctx.UI.Success("host already matches the manifest")
			return
		}

		for _, change := range changes {
			ctx.UI.Info(change.Step)
			if change.Diff != "" {
				ctx.UI.Printf("%s", change.Diff)
			}
		}
		ctx.UI.Printf("%d step(s) would run\n", len(changes))
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
