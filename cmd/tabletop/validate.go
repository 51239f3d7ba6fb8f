package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tabletop/internal/catalog"
	"tabletop/internal/storage"
	"tabletop/internal/validate"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check saved configurations without modifying them",
		RunE:  runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	therapy, settlement, err := cfg.Catalogs()
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	v := validate.New(log)
	keys := []struct {
		key     string
		catalog *catalog.Catalog
	}{
		{storage.KeySceneConfigurations, therapy},
		{storage.KeySettlementConfigurations, settlement},
	}

	var errorIssues []validate.Issue
	var warnIssues []validate.Issue
	for _, k := range keys {
		raw, err := db.Get(ctx, k.key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", k.key, err)
		}

		issues, err := checkConfigurations(v, raw, k.catalog)
		if err != nil {
			errorIssues = append(errorIssues, validate.Issue{
				Severity: validate.SeverityError,
				Code:     "not_json",
				Message:  err.Error(),
				Record:   k.key,
			})
			continue
		}
		for _, issue := range issues {
			if issue.Record == "" {
				issue.Record = fmt.Sprintf("%s[%d]", k.key, issue.Index)
			}
			switch issue.Severity {
			case validate.SeverityError:
				errorIssues = append(errorIssues, issue)
			case validate.SeverityWarn:
				warnIssues = append(warnIssues, issue)
			}
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(os.Stdout, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(os.Stdout, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

// checkConfigurations runs the same checks a session applies on reload and
// on load.
func checkConfigurations(v *validate.Validator, raw []byte, cat *catalog.Catalog) ([]validate.Issue, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("stored value is not valid JSON")
	}
	snaps, report := v.Snapshots(raw)
	issues := report.Issues
	for _, snap := range snaps {
		_, resolved := validate.Resolve(snap, cat)
		issues = append(issues, resolved...)
	}
	return issues, nil
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(out, "  - %s: %s (%s)\n", issue.Record, issue.Message, issue.Code)
	}
}
