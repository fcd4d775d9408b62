package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "planwing-mcp"

// NewServer creates an MCP server with the three generation tools registered.
func NewServer(gen TaskGenerator, rel RelationshipService, version string, logger *zap.Logger) *mcpsdk.Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	impl := &mcpsdk.Implementation{
		Name:    ServerName,
		Version: version,
	}
	serverOpts := &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
			logger.Info("MCP connection established")
		},
	}
	server := mcpsdk.NewServer(impl, serverOpts)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: ToolGenerateTasks,
		Description: `Break a free-text requirement into 3 to 12 actionable tasks.
- options.taskCount sets the desired count (default 6)
- projectId adds the project's goal and recent tasks as context
- locale "fr" answers in French, anything else in English
Returns {tasks, meta}; meta.degraded is true when a fallback was used.`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[GenerateTasksParams]) (*mcpsdk.CallToolResultFor[any], error) {
		logger.Debug("tool call", zap.String("tool", ToolGenerateTasks))
		return HandleGenerateTasks(ctx, gen, params.Arguments)
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: ToolRelationshipsPreview,
		Description: `Generate tasks and propose relationships between them without saving anything.
Relationships reference tasks as task_N (1-based position in the tasks list).
Pass the result to confirm_task_relationships to persist it.`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[RelationshipsPreviewParams]) (*mcpsdk.CallToolResultFor[any], error) {
		logger.Debug("tool call", zap.String("tool", ToolRelationshipsPreview))
		return HandleRelationshipsPreview(ctx, rel, params.Arguments)
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: ToolConfirmRelationships,
		Description: `Create previewed tasks in a project, then create each relationship independently.
Returns created tasks, created relationships and rejected relationships with a reason code
(INVALID, CIRCULAR, CROSS_PROJECT, DUPLICATE, UNKNOWN).`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[ConfirmRelationshipsParams]) (*mcpsdk.CallToolResultFor[any], error) {
		logger.Debug("tool call", zap.String("tool", ToolConfirmRelationships))
		return HandleConfirmRelationships(ctx, rel, params.Arguments)
	})

	return server
}

// Serve runs the server on stdio until the client disconnects or ctx ends.
// stdout carries JSON-RPC only; logs must go to stderr.
func Serve(ctx context.Context, server *mcpsdk.Server) error {
	if err := server.Run(ctx, mcpsdk.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
