package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/athletematch-mcp/internal/config"
)

// searchAthletesTool returns the tool definition for search_athletes
func searchAthletesTool(cfg config.Search) mcp.Tool {
	return mcp.Tool{
		Name:        "search_athletes",
		Description: "Fuzzy search athletes by name across the database and the known-athletes list",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Name or partial name to search for",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of matches to return",
					"default":     cfg.DefaultLimit,
					"minimum":     1,
					"maximum":     cfg.MaxLimit,
				},
				"threshold": map[string]interface{}{
					"type":        "number",
					"description": "Minimum similarity score (0-100)",
					"default":     cfg.DefaultThreshold,
					"minimum":     0.0,
					"maximum":     100.0,
				},
				"include_known": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, also search the known-athletes list",
					"default":     cfg.IncludeKnown,
				},
			},
			Required: []string{"query"},
		},
	}
}

// getAthleteTool returns the tool definition for get_athlete
func getAthleteTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_athlete",
		Description: "Get an athlete with aliases and video appearances",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "integer",
					"description": "Athlete ID from search_athletes",
					"minimum":     1,
				},
			},
			Required: []string{"id"},
		},
	}
}

// linkKnownAthletesTool returns the tool definition for link_known_athletes
func linkKnownAthletesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "link_known_athletes",
		Description: "Link unlinked known athletes to database athletes by first-name similarity",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"threshold": map[string]interface{}{
					"type":        "number",
					"description": "Minimum similarity score for a link (0-100, default from config)",
					"minimum":     0.0,
					"maximum":     100.0,
				},
			},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report athlete database and known-athletes registry statistics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
