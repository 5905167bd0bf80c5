package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// addSelectionFlags adds the flags shared by every command that resolves versions.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("include", "i", "", "Only check dependencies whose name contains one of these (comma separated)")
	cmd.Flags().StringP("ignore", "x", "", "Skip dependencies whose name contains one of these (comma separated)")
	cmd.Flags().StringP("source", "s", "", "Only check these sources: npm, nuget (comma separated)")
	cmd.Flags().IntP("major", "m", 0, "Target the latest version of this major")
	cmd.Flags().Bool("minor", false, "Stay on the current major and target its latest version")
	cmd.Flags().BoolP("pre-release", "p", false, "Consider pre-release versions")
	cmd.Flags().Bool("debug", false, "Fetch dependencies one at a time")
	cmd.Flags().Int("concurrency", entities.DefaultConcurrency, "Maximum number of concurrent registry requests")
	cmd.Flags().String("compat-marker", entities.DefaultCompatMarker,
		"Version suffix of a parallel compatibility branch (empty to disable)")
	cmd.Flags().Bool("audit", false, "Attach known vulnerabilities from npm audit")
	cmd.Flags().Bool("urls", false, "Show package and version URLs")
	cmd.Flags().Bool("no-cache", false, "Do not cache registry responses")
}

// loadSettings reads the config file (explicit or discovered) and applies the
// flags the user set explicitly on top of it.
func loadSettings(cmd *cobra.Command, args []string) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		if found, err := entities.FindConfigFile(); err == nil {
			configPath = found
		}
	}

	settings := entities.NewDefaultSettings()
	if configPath != "" {
		logger.Infof("Using config file: %s", configPath)
		loaded, err := entities.NewSettings(configPath)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	if len(args) > 0 {
		settings.Path = args[0]
	}
	applyFlags(cmd, settings)
	return settings, nil
}

func applyFlags(cmd *cobra.Command, settings *entities.Settings) {
	flags := cmd.Flags()
	if flags.Changed("include") {
		value, _ := flags.GetString("include")
		settings.Include = entities.SplitList(value)
	}
	if flags.Changed("ignore") {
		value, _ := flags.GetString("ignore")
		settings.Ignore = entities.SplitList(value)
	}
	if flags.Changed("source") {
		value, _ := flags.GetString("source")
		settings.Sources = entities.SplitList(value)
	}
	if flags.Changed("major") {
		settings.RequestedMajor, _ = flags.GetInt("major")
	}
	if flags.Changed("minor") {
		settings.KeepMajor, _ = flags.GetBool("minor")
	}
	if flags.Changed("pre-release") {
		settings.IncludePreRelease, _ = flags.GetBool("pre-release")
	}
	if flags.Changed("debug") {
		settings.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("concurrency") {
		if value, _ := flags.GetInt("concurrency"); value > 0 {
			settings.Concurrency = value
		}
	}
	if flags.Changed("compat-marker") {
		value, _ := flags.GetString("compat-marker")
		settings.CompatMarker = &value
	}
	if flags.Changed("audit") {
		settings.Audit, _ = flags.GetBool("audit")
	}
	if flags.Changed("urls") {
		settings.ShowURLs, _ = flags.GetBool("urls")
	}
	if flags.Changed("no-cache") {
		settings.Cache.Disabled, _ = flags.GetBool("no-cache")
	}
	if flags.Changed("dry-run") {
		settings.DryRun, _ = flags.GetBool("dry-run")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose || settings.Debug {
		logger.SetLevel(logger.DebugLevel)
	}
}
