// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/deviceinfo/core"
	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// kindChoices are the accepted values of the "kind" tool argument.
var kindChoices = []string{string(schema.LaunchCounter), string(schema.ReviewPromptCounter)}

// NewMCPServer initializes and configures the deviceinfo MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(exec *core.Executor) *server.MCPServer {
	s := server.NewMCPServer(
		"Device Info Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{exec: exec}

	// --- 1. Tool: get_counts ---
	s.AddTool(mcp.NewTool("get_counts",
		mcp.WithDescription("Get per-version event counts. Omit kind to get every counter."),
		mcp.WithString("kind", mcp.Description("Counter kind (launch, review_prompt)."), mcp.Enum(kindChoices...)),
	), h.handleGetCounts)

	// --- 2. Tool: increment_count ---
	s.AddTool(mcp.NewTool("increment_count",
		mcp.WithDescription("Record one event for the current app version and return the updated counts."),
		mcp.WithString("kind", mcp.Description("Counter kind (launch, review_prompt)."), mcp.Enum(kindChoices...), mcp.Required()),
	), h.handleIncrementCount)

	// --- 3. Tool: get_device_info ---
	s.AddTool(mcp.NewTool("get_device_info",
		mcp.WithDescription("Build the device info dictionary used to register for push notifications."),
		mcp.WithString("token", mcp.Description("Push token; hex tokens are normalized to uppercase.")),
		mcp.WithNumber("lat", mcp.Description("Latitude of the device.")),
		mcp.WithNumber("lng", mcp.Description("Longitude of the device.")),
		mcp.WithBoolean("null_missing", mcp.Description("Report missing token and coordinates as null instead of omitting them.")),
	), h.handleGetDeviceInfo)

	// --- 4. Tool: get_store_status ---
	s.AddTool(mcp.NewTool("get_store_status",
		mcp.WithDescription("Show which store backs a counter and how many entries it holds."),
		mcp.WithString("kind", mcp.Description("Counter kind (launch, review_prompt). Defaults to launch."), mcp.Enum(kindChoices...)),
	), h.handleGetStoreStatus)

	return s
}

// StartMCPServer starts the deviceinfo MCP server on stdio.
func StartMCPServer(_ context.Context, cfg *contract.Config) error {
	s := NewMCPServer(core.NewExecutor(cfg, nil, nil))
	return server.ServeStdio(s)
}
