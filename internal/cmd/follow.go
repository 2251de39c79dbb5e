package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nitr-himanshu/adb-util/internal/source"
)

var followCmd = &cobra.Command{
	Use:   "follow <pattern...>",
	Short: "Follow log files for newly appended lines",
	Long: `Follow tails one or more files (or glob patterns) that a device log
is being redirected to, and streams appended lines through the engine.

Examples:
  adb-util follow /tmp/device.log
  adb-util follow "/var/log/devices/**/*.log" --level warning,error,fatal`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFollow,
}

func init() {
	followCmd.Flags().StringVar(&exportPath, "export", "", "write an export of the buffer to this path on exit")
	followCmd.Flags().StringVar(&exportFormat, "export-format", "", "render exported entries in this format (default: capture format)")
	rootCmd.AddCommand(followCmd)
}

func runFollow(cmd *cobra.Command, args []string) error {
	src, err := source.NewFollow(args)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "following %d file(s):\n", len(src.Paths()))
	for _, p := range src.Paths() {
		fmt.Fprintf(os.Stderr, "  %s\n", p)
	}

	return runCapture(src)
}
