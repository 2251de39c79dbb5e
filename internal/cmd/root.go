package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nitr-himanshu/adb-util/internal/buffer"
	"github.com/nitr-himanshu/adb-util/internal/filter"
	"github.com/nitr-himanshu/adb-util/internal/model"
)

var (
	cfgFile       string
	formatName    string
	outputFmt     string
	bufferSize    int
	levelFilter   string
	tagFilter     string
	pidFilter     int
	grepText      string
	grepRegex     bool
	caseSensitive bool
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "adb-util",
	Short: "adb-util — device log stream engine",
	Long: `adb-util consumes a continuous device log stream (adb logcat style),
parses each line into a structured entry, applies live filters, keeps a
bounded in-memory history, and exports deterministic snapshots.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.adb-util.yaml)")
	pf.StringVarP(&formatName, "format", "f", "threadtime", "log format: brief, process, tag, raw, time, threadtime, long")
	pf.StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
	pf.IntVarP(&bufferSize, "buffer", "b", buffer.DefaultCapacity, "entry history capacity")
	pf.StringVarP(&levelFilter, "level", "l", "", "keep only these severities (comma-separated, e.g. error,fatal or E,F)")
	pf.StringVar(&tagFilter, "tag", "", "keep only entries with this exact tag")
	pf.IntVar(&pidFilter, "pid", model.NoPID, "keep only entries from this pid")
	pf.StringVar(&grepText, "grep", "", "keep only entries whose message matches")
	pf.BoolVar(&grepRegex, "regex", false, "treat --grep as a regular expression")
	pf.BoolVar(&caseSensitive, "case-sensitive", false, "match --grep case-sensitively")

	_ = viper.BindPFlag("format", pf.Lookup("format"))
	_ = viper.BindPFlag("buffer", pf.Lookup("buffer"))
	_ = viper.BindPFlag("output", pf.Lookup("output"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".adb-util")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("adbutil")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// captureFormat resolves the configured log format.
func captureFormat() (model.LogFormat, error) {
	return model.ParseFormat(viper.GetString("format"))
}

// filterSpec builds the filter spec from the shared flags.
func filterSpec() (filter.Spec, error) {
	spec := filter.Spec{
		Tag:           tagFilter,
		Text:          grepText,
		UseRegex:      grepRegex,
		CaseSensitive: caseSensitive,
	}
	if pidFilter != model.NoPID {
		spec.PID = &pidFilter
	}

	if levelFilter != "" {
		for _, name := range strings.Split(levelFilter, ",") {
			level := model.ParseLevel(name)
			if level == model.LevelUnknown {
				return filter.Spec{}, fmt.Errorf("unknown level %q", strings.TrimSpace(name))
			}
			spec.Levels = append(spec.Levels, level)
		}
	}

	return spec, nil
}
