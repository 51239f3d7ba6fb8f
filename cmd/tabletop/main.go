package main

import (
	"os"

	"github.com/spf13/cobra"
)

const configPath = "tabletop.yaml"

func main() {
	root := &cobra.Command{
		Use:   "tabletop",
		Short: "Constellation and settlement table with undo history",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(serveCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(configsCmd())
	root.AddCommand(catalogCmd())
	root.AddCommand(zoneCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
