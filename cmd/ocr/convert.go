package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opencodereview/opencodereview/format"
	"github.com/opencodereview/opencodereview/storage"
)

func convertCmd() *cobra.Command {
	var fromName, toName string

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a review document between formats",
		Long: `Convert reads a review document and writes it in another format.
Formats are inferred from file extensions unless overridden with
--from/--to. Unset optional fields are omitted from the output.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			input, output := args[0], args[1]

			rev, err := loadReview(input, fromName)
			if err != nil {
				return err
			}

			target := format.FromExtension(output)
			switch {
			case toName != "":
				target, err = format.ParseFormat(toName)
				if err != nil {
					return err
				}
			case filepath.Ext(output) == "":
				// No extension to go on; fall back to the configured
				// default output format.
				target, err = format.ParseFormat(cfg.Output.Format)
				if err != nil {
					return err
				}
			}

			if err := storage.SaveAs(rev, output, target); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%s)\n", output, target)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromName, "from", "", "Input format (yaml, json, xml)")
	cmd.Flags().StringVar(&toName, "to", "", "Output format (yaml, json, xml)")

	return cmd
}
