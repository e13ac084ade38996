// Package cli wires the command tree of the doe-scan binary.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/doe-tools/doe-scan/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "doe-scan",
	Short: "doe-scan - varredura do Diário Oficial do Estado do Ceará",
	Long: `doe-scan retrieves the daily PDF bulletins of the state official
gazette (DOE/CE), scans their text for search terms or structured
contract-amendment notices ("extratos de aditivo"), and reports the
matches with highlighting, totals, and summaries.

Documents are probed part by part for each date; a part that does not
exist on the file server ends that date's probing. A local copy of a
bulletin in the cache directory is used instead of the network.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("doe-scan v1.0.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.doe-scan/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose progress output")

	rootCmd.PersistentFlags().String("base-url", config.DefaultBaseURL, "base URL of the gazette file server")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "per-request network timeout")
	rootCmd.PersistentFlags().String("cache-dir", ".", "directory checked for local bulletin copies")
	rootCmd.PersistentFlags().Int("max-parts", config.DefaultMaxParts, "safety ceiling on parts probed per date")
	rootCmd.PersistentFlags().Int64("max-file-size", config.DefaultMaxFileSize, "maximum bulletin size in bytes")
	rootCmd.PersistentFlags().Float64("rate", config.DefaultRate, "outbound requests per second")
	rootCmd.PersistentFlags().String("user-agent", config.DefaultUserAgent, "HTTP User-Agent")
	rootCmd.PersistentFlags().Bool("save-local", false, "keep downloaded bulletins in the cache directory")
	rootCmd.PersistentFlags().Bool("layout", false, "layout-preserving text extraction for term search")

	bindConfigFlags(rootCmd.PersistentFlags())

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// bindConfigFlags makes every configuration flag resolvable through
// viper, so flags, environment, and config file share one key space
func bindConfigFlags(fs *pflag.FlagSet) {
	for _, key := range []string{
		"base-url", "timeout", "cache-dir", "max-parts",
		"max-file-size", "rate", "user-agent", "save-local", "layout",
	} {
		_ = viper.BindPFlag(key, fs.Lookup(key))
	}
}

// initConfig reads in the config file and DOE_SCAN_* environment variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.doe-scan")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("DOE_SCAN")
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration for a command run
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

const dateLayoutBR = "02/01/2006"

// parseDate accepts dates as 2006-01-02 or 02/01/2006
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", dateLayoutBR} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD or DD/MM/YYYY)", s)
}

// parseRange resolves the --from/--to pair; an empty --to means the
// single day given by --from
func parseRange(fromArg, toArg string) (time.Time, time.Time, error) {
	if fromArg == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--from is required")
	}

	from, err := parseDate(fromArg)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	to := from
	if toArg != "" {
		if to, err = parseDate(toArg); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date must not precede start date")
	}

	return from, to, nil
}
