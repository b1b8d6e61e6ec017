// Package agent exposes the normalizer to LLM agents over MCP.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/structline/tiernorm/internal/inspect"
	"github.com/structline/tiernorm/internal/log"
	"github.com/structline/tiernorm/tier"
)

// NewServer builds the MCP server with the normalizer tools registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"tiernorm",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("normalize_tiers",
		mcp.WithDescription("Normalize a nested tiered-list JSON document: rename its hierarchy levels to Tier1_List..BranchesList and return the full result envelope."),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("The JSON document to normalize."),
		),
	), handleNormalize)

	s.AddTool(mcp.NewTool("discover_tiers",
		mcp.WithDescription("Discover the tier chain of a nested tiered-list JSON document without transforming it: original names, canonical names, structure label, and per-level statistics."),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("The JSON document to inspect."),
		),
	), handleDiscover)

	return s
}

// Serve runs the server on stdio until the client disconnects.
func Serve(version string) error {
	logger := log.WithComponent("agent")
	logger.Info().Str("version", version).Msg("serving MCP on stdio")
	if err := server.ServeStdio(NewServer(version)); err != nil {
		return fmt.Errorf("serve mcp: %w", err)
	}
	return nil
}

// Tool failures (bad JSON, cyclic graphs) surface as tool errors so the
// agent can react; only transport problems become protocol errors.
func handleNormalize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, errResult := decodeDocument(req)
	if errResult != nil {
		return errResult, nil
	}
	res, err := tier.Normalize(doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("normalize: %v", err)), nil
	}
	return jsonResult(res)
}

func handleDiscover(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, errResult := decodeDocument(req)
	if errResult != nil {
		return errResult, nil
	}
	report, err := inspect.Build(doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspect: %v", err)), nil
	}
	return jsonResult(report)
}

func decodeDocument(req mcp.CallToolRequest) (any, *mcp.CallToolResult) {
	raw, err := req.RequireString("document")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	doc, err := tier.DecodeBytes([]byte(raw))
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("parse document: %v", err))
	}
	return doc, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
