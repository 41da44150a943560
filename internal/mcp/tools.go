package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/athletematch-mcp/internal/linker"
	"github.com/dshills/athletematch-mcp/internal/searcher"
	"github.com/dshills/athletematch-mcp/internal/storage"
	"github.com/dshills/athletematch-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeNotFound         = -32001 // Athlete does not exist
	ErrorCodeLinkInProgress   = -32002 // Another link run is already running
	ErrorCodeRegistryDisabled = -32003 // No known-athletes file configured
	ErrorCodeEmptyQuery       = -32004 // Query parameter is empty
	ErrorCodeNoAthletes       = -32005 // Database has no athletes to link against
)

// handleSearchAthletes handles the search_athletes tool invocation
func (s *Server) handleSearchAthletes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", s.search.DefaultLimit)
	if limit < 1 || limit > s.search.MaxLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("limit must be between 1 and %d", s.search.MaxLimit), map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	threshold := getFloatDefault(args, "threshold", s.search.DefaultThreshold)
	if threshold < 0 || threshold > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "threshold must be between 0 and 100", map[string]interface{}{
			"param": "threshold",
			"value": threshold,
		})
	}

	resp, err := s.searcher.SearchAthletes(ctx, searcher.SearchRequest{
		Query:        query,
		Limit:        limit,
		Threshold:    threshold,
		IncludeKnown: getBoolDefault(args, "include_known", s.search.IncludeKnown),
	})
	if errors.Is(err, types.ErrInvalidArgument) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid search request", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	matches := make([]interface{}, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, formatMatch(m))
	}

	response := map[string]interface{}{
		"query":           query,
		"matches":         matches,
		"total_matches":   resp.TotalMatches,
		"candidate_count": resp.CandidateCount,
		"cache_hit":       resp.CacheHit,
		"duration_ms":     resp.Duration.Milliseconds(),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetAthlete handles the get_athlete tool invocation
func (s *Server) handleGetAthlete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	id := getIntDefault(args, "id", 0)
	if id < 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "id parameter is required", map[string]interface{}{
			"param":  "id",
			"reason": "missing or not a positive integer",
		})
	}

	athlete, err := s.storage.GetAthlete(ctx, int64(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeNotFound, "athlete not found", map[string]interface{}{
			"id": id,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get athlete", map[string]interface{}{
			"error": err.Error(),
		})
	}

	appearances, err := s.storage.ListAppearances(ctx, athlete.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list appearances", map[string]interface{}{
			"error": err.Error(),
		})
	}

	items := make([]interface{}, 0, len(appearances))
	for _, a := range appearances {
		items = append(items, map[string]interface{}{
			"youtube_id":        a.YouTubeID,
			"video_title":       a.VideoTitle,
			"timestamp_seconds": a.TimestampSeconds,
			"url":               a.TimestampURL(),
			"confidence_score":  a.ConfidenceScore,
			"raw_name":          a.RawName,
			"verified":          a.Verified,
		})
	}

	aliases := athlete.Aliases
	if aliases == nil {
		aliases = []string{}
	}

	response := map[string]interface{}{
		"athlete": map[string]interface{}{
			"id":               athlete.ID,
			"display_name":     athlete.DisplayName,
			"aliases":          aliases,
			"appearance_count": athlete.AppearanceCount,
			"created_at":       athlete.CreatedAt.Format(time.RFC3339),
		},
		"appearances": items,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleLinkKnownAthletes handles the link_known_athletes tool invocation
func (s *Server) handleLinkKnownAthletes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	if s.linker == nil {
		return nil, newMCPError(ErrorCodeRegistryDisabled, "no known-athletes file is configured", nil)
	}

	threshold := getFloatDefault(args, "threshold", s.linking.Threshold)
	if threshold < 0 || threshold > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "threshold must be between 0 and 100", map[string]interface{}{
			"param": "threshold",
			"value": threshold,
		})
	}

	stats, err := s.linker.Link(ctx, &linker.Config{
		Threshold: &threshold,
		Workers:   s.linking.Workers,
	})
	if stats != nil && stats.Linked > 0 {
		s.searcher.InvalidateCache()
	}

	switch {
	case errors.Is(err, linker.ErrLinkInProgress):
		return nil, newMCPError(ErrorCodeLinkInProgress, "a link run is already in progress", nil)
	case errors.Is(err, linker.ErrNoAthletes):
		return nil, newMCPError(ErrorCodeNoAthletes, "the database has no athletes to link against", nil)
	case errors.Is(err, types.ErrInvalidArgument):
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid link request", map[string]interface{}{
			"error": err.Error(),
		})
	case err != nil:
		data := map[string]interface{}{"error": err.Error()}
		if stats != nil {
			data["linked"] = stats.Linked
		}
		return nil, newMCPError(ErrorCodeInternalError, "link run failed", data)
	}

	results := make([]interface{}, 0, len(stats.Results))
	for _, r := range stats.Results {
		results = append(results, map[string]interface{}{
			"full_name":    r.FullName,
			"outcome":      string(r.Outcome),
			"athlete_id":   optionalID(r.AthleteID),
			"display_name": r.DisplayName,
			"score":        r.Score,
			"alias_added":  r.AliasAdded,
		})
	}

	response := map[string]interface{}{
		"linked":         stats.Linked,
		"already_linked": stats.AlreadyLinked,
		"no_match":       stats.BelowThreshold,
		"declined":       stats.Declined,
		"aliases_added":  stats.AliasesAdded,
		"duration_ms":    stats.Duration.Milliseconds(),
		"results":        results,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := arguments(request); err != nil {
		return nil, err
	}

	var (
		status       *storage.Status
		registryInfo map[string]interface{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		status, err = s.storage.GetStatus(gctx)
		return err
	})
	g.Go(func() error {
		registryInfo = s.registryStatus()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"database": map[string]interface{}{
			"athletes_count":       status.AthletesCount,
			"aliases_count":        status.AliasesCount,
			"appearances_count":    status.AppearancesCount,
			"verified_appearances": status.VerifiedAppearances,
			"revision":             status.Revision,
			"schema_version":       status.SchemaVersion,
			"database_size_mb":     fmt.Sprintf("%.2f", status.DatabaseSizeMB),
		},
		"registry":         registryInfo,
		"link_in_progress": s.linker != nil && s.linker.Running(),
		"build": map[string]interface{}{
			"server_version": ServerVersion,
			"build_mode":     status.BuildMode,
			"sqlite_driver":  storage.DriverName,
		},
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"has_athletes":        status.Health.HasAthletes,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

func (s *Server) registryStatus() map[string]interface{} {
	if s.registry == nil {
		return map[string]interface{}{"enabled": false}
	}

	summary := s.registry.Summary()
	return map[string]interface{}{
		"enabled":  true,
		"path":     s.registry.Path(),
		"athletes": summary.Total,
		"linked":   summary.Linked,
		"unlinked": summary.Unlinked,
		"revision": s.registry.Revision(),
	}
}

// Helper functions

func formatMatch(m types.Match) map[string]interface{} {
	return map[string]interface{}{
		"athlete_id":       optionalID(m.AthleteID),
		"display_name":     m.DisplayName,
		"similarity_score": m.SimilarityScore,
		"matched_on":       m.MatchedOn,
		"source":           string(m.Source),
		"appearance_count": m.AppearanceCount,
	}
}

// optionalID renders a nullable ID as a JSON number or null
func optionalID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

// arguments extracts the argument object. Tools without required
// parameters may be called with no arguments at all.
func arguments(request mcp.CallToolRequest) (map[string]interface{}, error) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	return args, nil
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getFloatDefault extracts a numeric parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	switch val := args[key].(type) {
	case float64:
		return val
	case int:
		return float64(val)
	}
	return defaultValue
}
