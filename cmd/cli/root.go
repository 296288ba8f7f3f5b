package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the `riskctl` command tree.
// NewRootCommand 构建 `riskctl` 命令树。
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "riskctl",
		Short: "A CLI tool for the Bell24h supplier risk service.",
		Long: `riskctl scores supplier records offline, prints the scoring model in use
and runs administrative tasks such as database migrations.`,
		SilenceUsage: true,
	}
	root.AddCommand(newScoreCommand(), newWeightsCommand(), newMigrateCommand())
	return root
}

// Execute is the main entry point for the CLI application.
// If an error occurs, it prints the error and exits.
// Execute 是 CLI 应用程序的主入口点。如果发生错误，它会打印错误并退出。
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
