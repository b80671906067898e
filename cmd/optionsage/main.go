package main

import (
	"fmt"
	"os"
	"strings"

	"optionsage/internal/cli"
	"optionsage/internal/config"
	"optionsage/internal/logging"
)

func main() {
	logger := logging.NewLogger()

	configDir := configDirFromArgs(os.Args[1:])
	if configDir != "" {
		// Pin the override so every config dir lookup resolves the same way.
		os.Setenv("OPTIONSAGE_CONFIG_DIR", configDir)
	} else {
		configDir = config.DefaultConfigDir()
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configDirFromArgs resolves --config before cobra parses flags, since the
// config file decides how the command tree is wired in the first place.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
