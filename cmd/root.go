package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kartoza/kartoza-qrgrab/internal/config"
	"github.com/kartoza/kartoza-qrgrab/internal/logging"
)

var (
	version   = "dev"
	debugMode bool
	cfgFile   string

	// set by PersistentPreRunE
	cfg *config.Config
)

// SetVersion sets the application version (called from main)
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "kartoza-qrgrab",
	Short: "Read QR codes from the screen",
	Long: `Kartoza QR Grab reads QR codes shown on your screen.

By default every monitor is captured and all QR codes found are reported.
Use 'kartoza-qrgrab select' to drag a rectangle with the mouse and only
decode what is inside it.

Results are shown as a desktop notification and printed, or copied to the
clipboard with --clip (several codes are joined with spaces).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScanAll(cmd)
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	d := config.DefaultConfig()

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.config/kartoza-qrgrab/config.toml)")
	rootCmd.PersistentFlags().String("backend", d.Backend, "Monitor and capture backend: auto, hyprland or screenshot")

	addOutputFlags(rootCmd.Flags())
	rootCmd.Flags().Bool("parallel", d.Parallel, "Capture monitors concurrently")
	rootCmd.Flags().String("monitor", "", "Only scan the monitor with this name (see 'kartoza-qrgrab monitors')")

	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(monitorsCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// addOutputFlags registers the flags shared by both scan modes
func addOutputFlags(fs *pflag.FlagSet) {
	d := config.DefaultConfig()

	fs.BoolP("clip", "c", false, "Copy the decoded text to the clipboard instead of printing it")
	fs.Bool("json", false, "Print results as a JSON array")
	fs.Bool("notify", d.Notify, "Show a desktop notification with the results")
	fs.Bool("beep", d.Beep, "Play a chime when scanning finishes")
	fs.Int("min-size", d.MinSize, "Upscale images whose shorter side is below this many pixels (0 disables)")
	fs.Duration("clipboard-hold", d.ClipboardHold, "How long to keep clipboard ownership after copying")
}

func setup(cmd *cobra.Command, _ []string) error {
	logging.Setup(os.Stderr, debugMode)

	v := viper.New()
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}

	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	return nil
}

// bindFlags binds every flag to the config key of the same name with hyphens
// removed, so values come from flags, then env, then the config file.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var err error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		configName := strings.ReplaceAll(f.Name, "-", "")
		if bindErr := v.BindPFlag(configName, f); bindErr != nil && err == nil {
			err = fmt.Errorf("failed to bind flag %s: %w", f.Name, bindErr)
		}
	})

	return err
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "kartoza-qrgrab %s\n", version)
	},
}
