package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/riskmap/internal/diagrams"
	"github.com/ziadkadry99/riskmap/internal/hierarchy"
	"github.com/ziadkadry99/riskmap/internal/registry"
)

// handleListMaps lists the loaded maps.
func (s *Server) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	maps := s.maps.Current().Maps()
	if len(maps) == 0 {
		return mcp.NewToolResultText("No component maps are loaded. Check the `maps` patterns in .riskmap.yml."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d map(s):\n", len(maps)))
	for _, m := range maps {
		sb.WriteString(fmt.Sprintf("\n- %s", m.Name))
		if m.Description != "" {
			sb.WriteString(": " + m.Description)
		}
		sb.WriteString(fmt.Sprintf("\n  roots: %s\n", joinIDs(m.Components.Roots(), ", ")))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleFindComponent searches all maps for a component.
func (s *Server) handleFindComponent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	component, err := request.RequireString("component")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: component"), nil
	}
	id := hierarchy.NormalizeID(component)
	if id == "" {
		return mcp.NewToolResultError("component must not be blank"), nil
	}

	matches := s.maps.Current().Find(string(id))
	switch registry.Classify(matches) {
	case registry.NotFound:
		return mcp.NewToolResultText(fmt.Sprintf("%s was not found in any map.", id)), nil
	case registry.Single:
		return mcp.NewToolResultText(fmt.Sprintf("%s is in map %s.", id, describeMatch(matches[0]))), nil
	default:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%s appears in %d maps:\n", id, len(matches)))
		for _, m := range matches {
			sb.WriteString("- " + describeMatch(m) + "\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// handleComponentPath returns the chain from a root to the component.
func (s *Server) handleComponentPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, errResult := s.requireMap(request)
	if errResult != nil {
		return errResult, nil
	}
	component, err := request.RequireString("component")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: component"), nil
	}

	id := hierarchy.NormalizeID(component)
	path := hierarchy.PathTo(m.Components, id)
	if path == nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s is not part of map %s", id, m.Name)), nil
	}
	return mcp.NewToolResultText(joinIDs(path, " -> ")), nil
}

// handleMapTree renders a map.
func (s *Server) handleMapTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, errResult := s.requireMap(request)
	if errResult != nil {
		return errResult, nil
	}

	highlight := hierarchy.NormalizeID(request.GetString("highlight", ""))
	var expand map[hierarchy.ComponentID]bool
	if highlight != "" {
		path := hierarchy.PathTo(m.Components, highlight)
		if path == nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s is not part of map %s", highlight, m.Name)), nil
		}
		expand = hierarchy.ExpandSet(path)
	}

	var statusOf hierarchy.StatusFunc
	if request.GetBool("live", false) {
		if s.statuses == nil {
			return mcp.NewToolResultError("live statuses are not configured"), nil
		}
		statusOf = hierarchy.StatusLookup(s.statuses.Resolve(ctx, m.Components.AllComponents()))
	}
	tree := hierarchy.Build(m.Components, statusOf, highlight, expand)

	switch format := request.GetString("format", "text"); format {
	case "mermaid":
		return mcp.NewToolResultText(diagrams.Mermaid(tree, diagrams.DefaultStylesheet)), nil
	case "text", "":
		out, err := diagrams.TextString(tree)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("rendering tree: %v", err)), nil
		}
		return mcp.NewToolResultText(out), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}
}

// handleStatusHistory lists recorded snapshots.
func (s *Server) handleStatusHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	component, err := request.RequireString("component")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: component"), nil
	}
	limit := request.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}

	snaps, err := s.history.History(ctx, hierarchy.ComponentID(component), limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading history: %v", err)), nil
	}
	if len(snaps) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No status recorded for %s.", hierarchy.NormalizeID(component))), nil
	}

	var sb strings.Builder
	for _, snap := range snaps {
		sb.WriteString(fmt.Sprintf("%s  %-11s", snap.RecordedAt.Format("2006-01-02 15:04:05"), snap.Status))
		if snap.Error != "" {
			sb.WriteString("  (" + snap.Error + ")")
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) requireMap(request mcp.CallToolRequest) (*registry.NamedMap, *mcp.CallToolResult) {
	name, err := request.RequireString("map")
	if err != nil {
		return nil, mcp.NewToolResultError("missing required parameter: map")
	}
	m, ok := s.maps.Current().Get(name)
	if !ok {
		return nil, mcp.NewToolResultError(fmt.Sprintf("map %q not found", name))
	}
	return m, nil
}

func describeMatch(m registry.Match) string {
	if m.Description == "" {
		return m.Name
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.Description)
}

func joinIDs(ids []hierarchy.ComponentID, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, sep)
}
