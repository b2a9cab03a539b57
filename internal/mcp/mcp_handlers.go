package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/deviceinfo/core"
	"github.com/huangsam/deviceinfo/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	exec *core.Executor
}

func (h *toolHandler) handleGetCounts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var kinds []schema.CounterKind
	if k := request.GetString("kind", ""); k != "" {
		kinds = append(kinds, schema.CounterKind(k))
	}

	summaries, err := h.exec.Summaries(ctx, kinds...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read counts: %v", err)), nil
	}
	return jsonResult(summaries)
}

func (h *toolHandler) handleIncrementCount(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := request.GetString("kind", "")
	if kind == "" {
		return mcp.NewToolResultError("kind is required"), nil
	}

	summary, err := h.exec.Increment(ctx, schema.CounterKind(kind))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to increment count: %v", err)), nil
	}
	return jsonResult(summary)
}

func (h *toolHandler) handleGetDeviceInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := core.DeviceInfoRequest{
		Token:          request.GetString("token", ""),
		NullForMissing: request.GetBool("null_missing", false),
	}
	args := request.GetArguments()
	if _, ok := args["lat"]; ok {
		lat := request.GetFloat("lat", 0)
		req.Latitude = &lat
	}
	if _, ok := args["lng"]; ok {
		lng := request.GetFloat("lng", 0)
		req.Longitude = &lng
	}

	info, err := h.exec.DeviceInfo(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build device info: %v", err)), nil
	}
	return jsonResult(info)
}

func (h *toolHandler) handleGetStoreStatus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := schema.CounterKind(request.GetString("kind", string(schema.LaunchCounter)))
	svc, err := h.exec.Counter(kind)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer func() { _ = svc.Close() }()

	status, err := svc.Status()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read store status: %v", err)), nil
	}
	return jsonResult(status)
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
