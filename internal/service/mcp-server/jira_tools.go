package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"jira_richtext/internal/logger"
	"jira_richtext/internal/richtext"
	"jira_richtext/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

type tools struct {
	svc *service.Service
}

// registerJiraTools registers all Jira-related tools with the server
func registerJiraTools(s *server.MCPServer, t *tools) {
	richTextTool := mcp.NewTool("get_issue_rich_text",
		mcp.WithDescription("List every text field of a Jira issue keyed by its JSON path"),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Jira issue id or key (e.g., 'PROJ-123')"),
		),
	)

	updateSummaryTool := mcp.NewTool("update_issue_summary",
		mcp.WithDescription("Set the summary of a Jira issue"),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Jira issue id or key (e.g., 'PROJ-123')"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("New summary text"),
		),
	)

	s.AddTool(richTextTool, t.handleGetRichText)
	s.AddTool(updateSummaryTool, t.handleUpdateSummary)
}

// richTextEntry keeps tool output ordered by path
type richTextEntry struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

func (t *tools) handleGetRichText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey, err := stringArg(request, "issue_key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fields, err := t.svc.RichText(ctx, issueKey, service.Caller{})
	if err != nil {
		logger.GetLogger().Error("failed to get rich text", zap.String("issue", issueKey), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries := make([]richTextEntry, 0, len(fields))
	for _, path := range richtext.Paths(fields) {
		entries = append(entries, richTextEntry{Path: path, Value: fields[path]})
	}
	jsonResult, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (t *tools) handleUpdateSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey, err := stringArg(request, "issue_key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := stringArg(request, "summary")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	status, err := t.svc.UpdateSummary(ctx, issueKey, service.Caller{}, summary)
	if err != nil {
		logger.GetLogger().Error("failed to update summary", zap.String("issue", issueKey), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	if status < 200 || status > 299 {
		return mcp.NewToolResultError(fmt.Sprintf("jira answered %d %s", status, http.StatusText(status))), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("summary of %s updated (status %d)", issueKey, status)), nil
}

func stringArg(request mcp.CallToolRequest, name string) (string, error) {
	v, ok := request.GetArguments()[name].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("invalid %s parameter", name)
	}
	return v, nil
}
