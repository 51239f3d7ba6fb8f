package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func configsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configs",
		Short: "Inspect saved configurations",
	}
	cmd.AddCommand(configsListCmd())
	cmd.AddCommand(configsShowCmd())
	cmd.AddCommand(configsDeleteCmd())
	return cmd
}

func configsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved configurations for the configured mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sess, db, err := openSession(ctx, cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			list := sess.List()
			if len(list) == 0 {
				fmt.Fprintln(os.Stdout, "No configurations found.")
				return nil
			}
			for _, snap := range list {
				saved := time.UnixMilli(snap.Timestamp).Format(time.DateTime)
				fmt.Fprintf(os.Stdout, "%s  %s (%d entities) [%s] %s\n", snap.ID, snap.Name, len(snap.Entities), snap.Scenario, saved)
			}
			return nil
		},
	}
}

func configsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the entities of a saved configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sess, db, err := openSession(ctx, cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			snap, ok := sess.Get(args[0])
			if !ok {
				return fmt.Errorf("configuration %q not found", args[0])
			}
			fmt.Fprintf(os.Stdout, "%s\n%s\n\n", snap.Name, snap.Analysis)
			for _, e := range snap.Entities {
				name := e.Definition.Name
				if e.Label != "" {
					name = fmt.Sprintf("%s (%s)", e.Label, e.Definition.Name)
				}
				fmt.Fprintf(os.Stdout, "%s  %s at %.2f,%.2f,%.2f zone=%s\n", e.ID, name, e.Position[0], e.Position[1], e.Position[2], zoneLabel(e.Zone))
				for _, rel := range e.Relationships {
					fmt.Fprintf(os.Stdout, "    -> %s (%s)\n", rel.TargetID, rel.Type)
				}
			}
			return nil
		},
	}
}

func configsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sess, db, err := openSession(ctx, cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			persisted, err := sess.Delete(ctx, args[0])
			if err != nil {
				return err
			}
			if !persisted {
				return fmt.Errorf("configuration removed but could not be written back")
			}
			fmt.Fprintf(os.Stdout, "Deleted %s.\n", args[0])
			return nil
		},
	}
}
