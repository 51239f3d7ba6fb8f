package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var projectName string
	var mode string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new tabletop project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName, mode)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&mode, "mode", "therapy", "Starting mode: therapy or settlement")
	return cmd
}

func runInit(projectName, mode string) error {
	if mode != "therapy" && mode != "settlement" {
		return fmt.Errorf("unknown mode %q", mode)
	}
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	contents := fmt.Sprintf("project: %s\nversion: 1\nmode: %s\n\nstorage:\n  dsn: sqlite://tabletop.db\n  quota: 5242880\n\nsurface:\n  radius: 7\n  neutral_radius: 1\n\nhistory:\n  limit: 100\n\nlog:\n  level: info\n\ncards:\n  images: []\n  words: []\n", projectName, mode)
	if err := os.WriteFile(configPath, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	return nil
}
