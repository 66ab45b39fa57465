package main

import (
	"fmt"
	"strings"

	"github.com/matsen/scholar2obsidian/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  s2o config                          # Show all config
  s2o config folder                   # Get specific value
  s2o config folder "Reading/Papers"  # Set value
  s2o config tags paper,to-read       # Comma-separated tags

Keys:
  folder        Vault folder for new notes (default "Science 🔬/Papers 📜")
  tags          Tags added to every note (default "paper")
  vault         Obsidian vault name; empty targets the open vault
  opener        Command that opens obsidian:// URIs; empty uses the system opener
  interval      Delay between attempts to find a citation (e.g. 100ms)
  max-attempts  Attempts before giving up (default 50)

Environment variables S2O_FOLDER, S2O_TAGS, S2O_VAULT and S2O_OPENER
override the file; a .env file in the working directory is also read.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the response for the config show command.
type ConfigResponse struct {
	Path        string   `json:"path"`
	Folder      string   `json:"folder"`
	Tags        []string `json:"tags"`
	Vault       string   `json:"vault"`
	Opener      string   `json:"opener"`
	Interval    string   `json:"interval"`
	MaxAttempts int      `json:"max_attempts"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			for _, key := range config.Keys {
				value, _ := cfg.Get(key)
				fmt.Printf("%-13s %s\n", key+":", value)
			}
			return nil
		}
		outputJSON(ConfigResponse{
			Path:        config.Path(),
			Folder:      cfg.Folder,
			Tags:        cfg.Tags,
			Vault:       cfg.Vault,
			Opener:      cfg.Opener,
			Interval:    cfg.Interval.String(),
			MaxAttempts: cfg.MaxAttempts,
		})
		return nil
	}

	key := config.NormalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
		}
		return nil
	}

	// Two args: set value. Start from the file alone so environment
	// overrides are not written back.
	path := config.Path()
	stored, err := config.LoadFile(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if err := stored.Set(key, args[1]); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := stored.Save(path); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	value, _ := stored.Get(key)
	if humanOutput {
		fmt.Printf("%s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value, Path: path})
	}
	return nil
}
