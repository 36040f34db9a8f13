package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencodereview/opencodereview/format"
	"github.com/opencodereview/opencodereview/review"
	"github.com/opencodereview/opencodereview/storage"
)

func validateCmd() *cobra.Command {
	var formatName string

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate review documents against the schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}

			failures := 0
			for _, path := range args {
				rev, err := loadReview(path, formatName)
				if err != nil {
					fmt.Printf("%s: INVALID: %v\n", path, err)
					failures++
					continue
				}
				fmt.Printf("%s: OK (%d activities, status %s)\n", path, len(rev.Activities), rev.Status())
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d documents failed validation", failures, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "", "Force input format (yaml, json, xml) instead of using the extension")

	return cmd
}

// loadReview loads a document, honoring an explicit format override.
func loadReview(path, formatName string) (*review.Review, error) {
	if formatName == "" {
		return storage.Load(path)
	}
	f, err := format.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	return storage.LoadAs(path, f)
}
