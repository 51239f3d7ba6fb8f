package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"tabletop/internal/catalog"
)

func zoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zone <x> <y> <z>",
		Short: "Classify a table position into a life path zone",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var position catalog.Vec3
			for i, arg := range args {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("parsing coordinate %q: %w", arg, err)
				}
				position[i] = v
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			zone := cfg.SurfaceSpec().ClassifyZone(position)
			fmt.Fprintln(os.Stdout, zoneLabel(zone))
			if info, ok := catalog.Info(zone); ok {
				fmt.Fprintf(os.Stdout, "%s: %s\n", info.Name, info.Description)
			}
			return nil
		},
	}
}

func zoneLabel(z catalog.Zone) string {
	if z == catalog.ZoneNone {
		return "neutral"
	}
	return string(z)
}
