package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencodereview/opencodereview/review"
)

func showCmd() *cobra.Command {
	var formatName string
	var all bool

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Summarize a review document",
		Long: `Show prints the review's derived state: status, reviewers, and the
visible activity log. Superseded and retracted activities are hidden
unless --all is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}

			rev, err := loadReview(args[0], formatName)
			if err != nil {
				return err
			}

			printSummary(rev, all)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "", "Force input format (yaml, json, xml)")
	cmd.Flags().BoolVar(&all, "all", false, "Include superseded and retracted activities")

	return cmd
}

func printSummary(rev *review.Review, all bool) {
	fmt.Printf("Version:   %s\n", rev.Version)
	fmt.Printf("Status:    %s\n", rev.Status())

	if s := rev.Subject; s != nil {
		fmt.Printf("Subject:   %s\n", describeSubject(s))
	}
	if reviewers := rev.Reviewers(); len(reviewers) > 0 {
		fmt.Printf("Reviewers: %s\n", strings.Join(reviewers, ", "))
	}

	shown := rev.VisibleActivities()
	if all {
		shown = rev.Activities
	}
	fmt.Printf("Activities: %d total, %d visible\n", len(rev.Activities), len(rev.VisibleActivities()))

	for i := range shown {
		printActivity(&shown[i], 1)
	}
}

func printActivity(a *review.Activity, depth int) {
	indent := strings.Repeat("  ", depth)

	line := fmt.Sprintf("%s- [%s]", indent, a.Category)
	if a.Severity != "" {
		line += fmt.Sprintf(" (%s)", a.Severity)
	}
	if a.Author != nil {
		line += " " + a.Author.Name
		if a.Author.IsAgent() {
			line += " (agent)"
		}
	}
	if loc := a.EffectiveLocation(); loc != nil {
		line += " " + describeLocation(loc)
	}
	if a.Content != "" {
		line += ": " + firstLine(a.Content)
	}
	fmt.Println(line)

	for i := range a.Replies {
		printActivity(&a.Replies[i], depth+1)
	}
}

func describeSubject(s *review.Subject) string {
	parts := []string{s.Type}
	switch {
	case s.Name != "":
		parts = append(parts, s.Name)
	case s.Repo != "":
		parts = append(parts, s.Repo)
	case s.Path != "":
		parts = append(parts, s.Path)
	case s.Commit != "":
		parts = append(parts, s.Commit)
	}
	if s.Provider != "" && s.ProviderRef != "" {
		parts = append(parts, fmt.Sprintf("%s/%s", s.Provider, s.ProviderRef))
	}
	return strings.Join(parts, " ")
}

func describeLocation(loc *review.Location) string {
	var b strings.Builder
	b.WriteString(loc.File)
	if len(loc.Lines) > 0 {
		ranges := make([]string, 0, len(loc.Lines))
		for _, lr := range loc.Lines {
			if lr.Start == lr.End {
				ranges = append(ranges, fmt.Sprintf("%d", lr.Start))
			} else {
				ranges = append(ranges, fmt.Sprintf("%d-%d", lr.Start, lr.End))
			}
		}
		b.WriteString(":" + strings.Join(ranges, ","))
	}
	if loc.Selector != nil {
		b.WriteString(fmt.Sprintf(" <%s:%s>", loc.Selector.Type, loc.Selector.Path))
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
