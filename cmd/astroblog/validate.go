package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/astroaura/astroblog/internal/astro"
	"github.com/astroaura/astroblog/internal/quality"
)

func validateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Print a quality report for a rendered post page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			page, err := quality.ParsePage(f)
			if err != nil {
				return err
			}
			when := page.Published
			if when.IsZero() {
				when = time.Now()
			}
			sky := astro.Compute(when)

			r := quality.New().Validate(page.Title, page.Content, page.Meta, &sky)
			fmt.Fprint(cmd.OutOrStdout(), quality.Report(r))
			if strict && !r.Passed {
				return fmt.Errorf("%s: quality check failed (%.1f)", args[0], r.Score)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when the post does not pass")
	return cmd
}
