package cmd

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/melih-ucgun/settle/internal/catalog"
	"github.com/melih-ucgun/settle/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Re-probe every configured resource and report",
	Long:  `Runs the read-only verification sweep without applying anything. Mandatory resources in the wrong state count as errors, optional ones as warnings.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cfg, closer, err := setup(cmd, true)
		if err != nil {
			pterm.Error.Printfln("startup failed: %v", err)
			os.Exit(exitFailure)
		}
		defer closer()

		report := verify.Run(ctx, catalog.Checks(ctx, cfg))
		report.Print(ctx.UI)

		if report.Errors > 0 {
			os.Exit(exitFailure)
		}
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
