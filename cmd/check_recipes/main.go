package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/seasonal-recipes/backend/internal/store"
)

var errUnhealthy = errors.New("recipe data has problems")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check_recipes",
		Short: "Validate a recipe data file",
		Long: `Load a recipe data file the same way the API server does and print
per-category meal counts, season and festival coverage, and any records with
missing fields or duplicate identities.

Examples:
  check_recipes                                  # check data/recipes.json
  check_recipes --source s3://bucket/recipes.json
  check_recipes --json --strict                  # fail on problems`,
		SilenceUsage: true,
		RunE:         runCheck,
	}

	cmd.Flags().String("source", envOr("RECIPES_SOURCE", "data/recipes.json"), "path or s3://bucket/key of the recipe file")
	cmd.Flags().String("region", envOr("AWS_REGION", "us-east-1"), "AWS region for s3 sources")
	cmd.Flags().Bool("json", false, "output as JSON")
	cmd.Flags().Bool("strict", false, "exit non-zero when problems are found")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	region, _ := cmd.Flags().GetString("region")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	strict, _ := cmd.Flags().GetBool("strict")

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	s, err := store.LoadSource(ctx, source, region)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", source, err)
	}

	report := BuildReport(s)
	out := cmd.OutOrStdout()
	if jsonOutput {
		if err := report.WriteJSON(out); err != nil {
			return err
		}
	} else {
		report.WriteText(out)
	}

	if strict && !report.Healthy() {
		return errUnhealthy
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
