package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"tabletop/internal/catalog"
)

func catalogCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List definitions available in the configured mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(category)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Category to filter")
	return cmd
}

func runCatalog(category string) error {
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

	cat := sess.Catalog()
	defs := cat.Definitions()
	if category != "" {
		c := catalog.Category(strings.ToLower(category))
		if !c.Valid() {
			return fmt.Errorf("unknown category %q", category)
		}
		defs = cat.ByCategory(c)
	}
	if len(defs) == 0 {
		fmt.Fprintln(os.Stdout, "No definitions found.")
		return nil
	}

	if era, ok := sess.Era(); ok {
		fmt.Fprintf(os.Stdout, "%s: %s\n\n", era.Name, era.ChallengeDescription)
	}
	for _, def := range defs {
		marker := " "
		if err := sess.CanPlace(def.ID); err == nil {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %s (%s) [%s]%s\n", marker, def.Name, def.ID, def.Category, costText(def.ResourceCost))
	}
	return nil
}

func costText(cost map[string]int) string {
	if len(cost) == 0 {
		return ""
	}
	names := make([]string, 0, len(cost))
	for name := range cost {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %d", name, cost[name]))
	}
	return " cost: " + strings.Join(parts, ", ")
}
