package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencodereview/opencodereview/review"
	"github.com/opencodereview/opencodereview/storage"
)

func addCmd() *cobra.Command {
	var (
		category   string
		message    string
		file       string
		lines      string
		severity   string
		mentions   []string
		supersedes []string
		addresses  []string
		conditions []string
		authorName string
	)

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Append an activity to a review document",
		Long: `Add records one activity at the end of the review's log. The log is
append-only: corrections are new activities referencing old ones via
--supersedes or --addresses, never edits.

The author is taken from configuration (author.name/author.email in
.opencodereview.yaml) unless overridden with --author.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path := args[0]
			rev, err := storage.Load(path)
			if err != nil {
				return err
			}

			a := review.NewActivity(category)
			a.Content = message
			a.File = file
			a.Severity = severity
			a.Mentions = mentions
			a.Supersedes = supersedes
			a.Addresses = addresses
			a.Conditions = conditions
			now := time.Now().UTC().Truncate(time.Second)
			a.Created = &now

			if lines != "" {
				a.Lines, err = parseLineRanges(lines)
				if err != nil {
					return err
				}
			}

			name := cfg.Author.Name
			if authorName != "" {
				name = authorName
			}
			if name != "" {
				a.Author = &review.Author{Name: name, Email: cfg.Author.Email}
			}

			if err := rev.Append(a); err != nil {
				return err
			}
			if err := storage.Save(rev, path); err != nil {
				return err
			}
			fmt.Printf("Added %s activity %s\n", a.Category, a.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", review.CategoryNote, "Activity category (see 'ocr add --help' for the full list)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Activity content (markdown)")
	cmd.Flags().StringVar(&file, "file", "", "File the activity applies to")
	cmd.Flags().StringVarP(&lines, "lines", "l", "", "Line ranges, e.g. \"10-12,40\"")
	cmd.Flags().StringVar(&severity, "severity", "", "Severity (info, warning, error, critical)")
	cmd.Flags().StringArrayVar(&mentions, "mention", nil, "@-reference to notify or assign (repeatable)")
	cmd.Flags().StringArrayVar(&supersedes, "supersedes", nil, "ID of an activity this one replaces (repeatable)")
	cmd.Flags().StringArrayVar(&addresses, "addresses", nil, "ID of an activity this one is about (repeatable)")
	cmd.Flags().StringArrayVar(&conditions, "condition", nil, "Condition for a pending verdict (repeatable)")
	cmd.Flags().StringVar(&authorName, "author", "", "Author name, overriding configuration")

	return cmd
}

// parseLineRanges parses "10-12,40" into line ranges; a bare number is
// a single-line range.
func parseLineRanges(s string) ([]review.LineRange, error) {
	var out []review.LineRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		start, end, found := strings.Cut(part, "-")
		a, err := strconv.Atoi(strings.TrimSpace(start))
		if err != nil {
			return nil, fmt.Errorf("invalid line range %q", part)
		}
		b := a
		if found {
			b, err = strconv.Atoi(strings.TrimSpace(end))
			if err != nil {
				return nil, fmt.Errorf("invalid line range %q", part)
			}
		}
		out = append(out, review.LineRange{Start: a, End: b})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no line ranges in %q", s)
	}
	return out, nil
}
