// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the vault query tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/halvard/munin/internal/apperr"
	"github.com/halvard/munin/internal/models"
	"github.com/halvard/munin/internal/service"
)

// Server wraps the MCP server with the vault query tools.
type Server struct {
	mcp *server.MCPServer
	svc *service.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *service.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Munin",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_vault",
		mcp.WithDescription("Search vault documents by free text and/or structural filters. "+
			"Filters are combined with AND; tags match hierarchically (searching 'work' also finds 'work/puppet')."),
		mcp.WithString("query", mcp.Description("Free-text search string (optional)")),
		mcp.WithString("tags", mcp.Description("Comma-separated tag filters, matched hierarchically")),
		mcp.WithString("type", mcp.Description("Document type: note, project, task, daily, or meeting")),
		mcp.WithString("status", mcp.Description("Document status: active, archived, idea, or completed")),
		mcp.WithString("category", mcp.Description("Document category: work, personal, knowledge, life, or dailies")),
		mcp.WithString("date_from", mcp.Description("Earliest modified date, YYYY-MM-DD")),
		mcp.WithString("date_to", mcp.Description("Latest modified date, YYYY-MM-DD")),
		mcp.WithString("path_pattern", mcp.Description("Path filter: 'Folder/**' for a subtree, anything else as substring")),
		mcp.WithBoolean("include_archive", mcp.Description("Include documents under the archive folder (default false)")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 20)")),
	), s.searchVault)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read one indexed document, including its full body and metadata."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path (e.g. Projects/roadmap.md)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("documents_by_tag",
		mcp.WithDescription("List documents carrying a tag or any of its descendants, newest first."),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Hierarchical tag (e.g. work or work/puppet)")),
	), s.documentsByTag)

	s.mcp.AddTool(mcp.NewTool("recent_documents",
		mcp.WithDescription("List the most recently modified documents."),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 20)")),
	), s.recentDocuments)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List every distinct tag in the vault."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("vault_summary",
		mcp.WithDescription("Summarize the vault: document counts grouped by type, status, and category, "+
			"plus the most recently modified documents. Accepts the same structural filters as search_vault."),
		mcp.WithString("tags", mcp.Description("Comma-separated tag filters")),
		mcp.WithString("type", mcp.Description("Document type filter")),
		mcp.WithString("status", mcp.Description("Document status filter")),
		mcp.WithString("category", mcp.Description("Document category filter")),
		mcp.WithBoolean("include_archive", mcp.Description("Include archived documents (default false)")),
	), s.vaultSummary)

	s.mcp.AddResource(
		mcp.NewResource("munin://frontmatter-format", "Frontmatter Format",
			mcp.WithResourceDescription("The metadata header keys Munin recognizes when indexing documents."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// queryFromArgs builds a models.Query from tool arguments.
func queryFromArgs(req mcp.CallToolRequest) models.Query {
	args := req.GetArguments()

	var tags []string
	for _, t := range strings.Split(cast.ToString(args["tags"]), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	return models.Query{
		Text:           cast.ToString(args["query"]),
		Tags:           tags,
		Type:           cast.ToString(args["type"]),
		Status:         cast.ToString(args["status"]),
		Category:       cast.ToString(args["category"]),
		DateFrom:       cast.ToString(args["date_from"]),
		DateTo:         cast.ToString(args["date_to"]),
		PathPattern:    cast.ToString(args["path_pattern"]),
		IncludeArchive: cast.ToBool(args["include_archive"]),
		Limit:          cast.ToInt(args["limit"]),
	}
}

func (s *Server) searchVault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.svc.Search(queryFromArgs(req))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return listResult(docs), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.GetByPath(path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(doc, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) documentsByTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	docs, err := s.svc.GetByTag(tag)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return listResult(docs), nil
}

func (s *Server) recentDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := cast.ToInt(req.GetArguments()["limit"])
	docs, err := s.svc.GetRecent(limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return listResult(docs), nil
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.svc.ListTags()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(tags) == 0 {
		return mcp.NewToolResultText("no tags found"), nil
	}
	return mcp.NewToolResultText(strings.Join(tags, "\n")), nil
}

func (s *Server) vaultSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := s.svc.Summarize(queryFromArgs(req))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "munin://frontmatter-format",
			MIMEType: "text/markdown",
			Text:     FrontmatterFormat,
		},
	}, nil
}

// listResult renders a document list without full bodies, which would blow
// up tool output for large vaults.
func listResult(docs []models.Document) *mcp.CallToolResult {
	type item struct {
		Path     string   `json:"path"`
		Title    string   `json:"title"`
		Excerpt  string   `json:"excerpt"`
		Tags     []string `json:"tags"`
		Type     string   `json:"type"`
		Modified string   `json:"modified,omitempty"`
	}
	items := make([]item, len(docs))
	for i, d := range docs {
		items[i] = item{
			Path:     d.Path,
			Title:    d.Title,
			Excerpt:  d.Excerpt,
			Tags:     d.Meta.Tags,
			Type:     d.Meta.Type,
			Modified: d.Meta.Modified,
		}
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out))
}
