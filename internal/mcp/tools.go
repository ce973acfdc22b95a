package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listMapsTool defines the list_maps MCP tool.
var listMapsTool = mcp.NewTool("list_maps",
	mcp.WithDescription("List every loaded component map with its description and root components."),
)

// findComponentTool defines the find_component MCP tool.
var findComponentTool = mcp.NewTool("find_component",
	mcp.WithDescription("Find which component maps contain a component. Names are case-insensitive."),
	mcp.WithString("component",
		mcp.Required(),
		mcp.Description("Component identifier, e.g. ULDEC"),
	),
)

// componentPathTool defines the component_path MCP tool.
var componentPathTool = mcp.NewTool("component_path",
	mcp.WithDescription("Get the dependency chain from the root of a map down to a component."),
	mcp.WithString("map",
		mcp.Required(),
		mcp.Description("Name of the component map"),
	),
	mcp.WithString("component",
		mcp.Required(),
		mcp.Description("Component identifier"),
	),
)

// mapTreeTool defines the map_tree MCP tool.
var mapTreeTool = mcp.NewTool("map_tree",
	mcp.WithDescription("Render a component map as a tree. The highlighted component and its ancestors are always expanded."),
	mcp.WithString("map",
		mcp.Required(),
		mcp.Description("Name of the component map"),
	),
	mcp.WithString("highlight",
		mcp.Description("Component to highlight (optional)"),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default text)"),
		mcp.Enum("text", "mermaid"),
	),
	mcp.WithBoolean("live",
		mcp.Description("Fetch live statuses before rendering (default false)"),
	),
)

// statusHistoryTool defines the status_history MCP tool.
var statusHistoryTool = mcp.NewTool("status_history",
	mcp.WithDescription("Get the recorded status history of a component, newest first."),
	mcp.WithString("component",
		mcp.Required(),
		mcp.Description("Component identifier"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of snapshots to return (default 20)"),
	),
)
