// Command example prints the rich text fields of an issue and optionally
// updates its summary.
//
//	JIRA_HOST=your-domain.atlassian.net JIRA_USERNAME=email@example.com \
//	JIRA_API_TOKEN=<api_token> LOG_LEVEL=info example --issue PROJ-1 --summary "New title"
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"jira_richtext/internal/config"
	"jira_richtext/internal/jira"
	"jira_richtext/internal/logger"
	"jira_richtext/internal/model"
	"jira_richtext/internal/richtext"

	"github.com/spf13/pflag"
)

func main() {
	issueKey := pflag.StringP("issue", "i", "", "issue id or key to read")
	summary := pflag.StringP("summary", "s", "", "new summary to set after printing the fields")
	pflag.Parse()

	if *issueKey == "" {
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel, "stderr"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ref := model.IssueRef{
		Host:         cfg.JiraHost,
		IssueIDOrKey: *issueKey,
		Username:     cfg.JiraUsername,
		AuthToken:    cfg.JiraAPIToken,
	}
	if err := run(context.Background(), os.Stdout, ref, *summary); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, out io.Writer, ref model.IssueRef, summary string, opts ...jira.Option) error {
	issue, err := jira.NewIssue(ctx, ref, opts...)
	if err != nil {
		return err
	}
	fields := issue.RichText()
	for _, path := range richtext.Paths(fields) {
		fmt.Fprintf(out, "%s : %s\n", path, fields[path])
	}

	if summary == "" {
		return nil
	}
	editor, err := jira.NewSummaryEditor(ref, opts...)
	if err != nil {
		return err
	}
	status, err := editor.UpdateIssueSummary(ctx, summary)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, status)
	return nil
}
