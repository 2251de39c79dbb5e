package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nitr-himanshu/adb-util/internal/model"
	"github.com/nitr-himanshu/adb-util/internal/render"
	"github.com/nitr-himanshu/adb-util/internal/session"
	"github.com/nitr-himanshu/adb-util/internal/source"
)

var (
	exportPath   string
	exportFormat string
)

var streamCmd = &cobra.Command{
	Use:   "stream [file]",
	Short: "Stream device log lines from stdin or a file",
	Long: `Stream reads log lines produced by the device logging tool, e.g.:

  adb logcat -v threadtime | adb-util stream
  adb-util stream captured.log --format brief --level error,fatal
  adb logcat | adb-util stream --export crash.txt --grep "FATAL"

Entries pass through the active filters in real time; the full history
stays in the bounded buffer and can be exported on exit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStream,
}

func init() {
	streamCmd.Flags().StringVar(&exportPath, "export", "", "write an export of the buffer to this path on exit")
	streamCmd.Flags().StringVar(&exportFormat, "export-format", "", "render exported entries in this format (default: capture format)")
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
	var rc io.ReadCloser = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		rc = f
	}

	return runCapture(source.NewReader(rc))
}

// runCapture drives a session over the given source with the shared
// flags, rendering accepted entries until the stream ends.
func runCapture(src source.LineSource) error {
	format, err := captureFormat()
	if err != nil {
		return err
	}
	spec, err := filterSpec()
	if err != nil {
		return err
	}

	sess := session.New(viper.GetInt("buffer"))
	if err := sess.SetFilter(spec); err != nil {
		return err
	}

	var renderer render.Renderer
	switch strings.ToLower(viper.GetString("output")) {
	case "json":
		renderer = render.NewJSONRenderer(os.Stdout)
	default:
		renderer = render.NewTextRenderer(os.Stdout, format)
	}

	events := sess.Subscribe()
	if err := sess.Start(src, format); err != nil {
		return err
	}

	// Ctrl-C stops the capture; the buffer survives for export.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nstopping capture...")
		if err := sess.Stop(); err != nil && !errors.Is(err, session.ErrNotActive) {
			log.Printf("stop: %v", err)
		}
	}()

	for ev := range events {
		switch ev.Kind {
		case session.EventEntries:
			for _, entry := range ev.Entries {
				if err := renderer.Render(entry); err != nil {
					log.Printf("render error: %v", err)
				}
			}
		case session.EventError:
			fmt.Fprintf(os.Stderr, "stream ended: %v\n", ev.Err)
		}
	}

	if exportPath == "" {
		return nil
	}
	return writeExport(sess, format)
}

func writeExport(sess *session.Session, captured model.LogFormat) error {
	format := captured
	if exportFormat != "" {
		f, err := model.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		format = f
	}

	path := exportPath
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, "logcat_export.txt")
	}

	if err := sess.ExportFile(path, format, nil); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported %d entries to %s\n", len(sess.Snapshot()), path)
	return nil
}
