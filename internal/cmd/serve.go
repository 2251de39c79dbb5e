package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nitr-himanshu/adb-util/internal/server"
	"github.com/nitr-himanshu/adb-util/internal/session"
	"github.com/nitr-himanshu/adb-util/internal/source"
	"github.com/nitr-himanshu/adb-util/internal/stats"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Stream logs and expose them over HTTP",
	Long: `Serve runs a capture session (stdin or a file, like stream) and
exposes it on a local HTTP port: live entries over a websocket at /ws,
the filtered history at /api/entries, and capture metrics at /api/stats.

Example:
  adb logcat -v threadtime | adb-util serve --port 8700`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8700", "HTTP listen port")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	format, err := captureFormat()
	if err != nil {
		return err
	}
	spec, err := filterSpec()
	if err != nil {
		return err
	}

	var rc io.ReadCloser = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		rc = f
	}

	sess := session.New(viper.GetInt("buffer"))
	if err := sess.SetFilter(spec); err != nil {
		return err
	}

	collector := stats.New(sess)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go collector.Start(ctx)

	if err := sess.Start(source.NewReader(rc), format); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nshutting down...")
		if err := sess.Stop(); err != nil && !errors.Is(err, session.ErrNotActive) {
			log.Printf("stop: %v", err)
		}
		os.Exit(0)
	}()

	srv := server.New(sess, collector, viper.GetString("port"))
	fmt.Fprintf(os.Stderr, "serving on :%s\n", viper.GetString("port"))
	return srv.Start()
}
