// Package mcp implements the Model Context Protocol (MCP) server for athletematch.
//
// The MCP server exposes four tools to AI assistants:
//   - search_athletes: Fuzzy search athletes by name
//   - get_athlete: Fetch one athlete with aliases and video appearances
//   - link_known_athletes: Link the known-athletes list to database athletes
//   - get_status: Database and registry statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Stdout carries protocol messages only. All logging goes to stderr.
//
// # Basic Usage
//
// The MCP server is typically started via the serve command:
//
//	athletematch serve
//
// # Tool: search_athletes
//
//	Request:
//	{
//	  "name": "search_athletes",
//	  "arguments": {
//	    "query": "sloan",
//	    "limit": 10,
//	    "threshold": 45,
//	    "include_known": true
//	  }
//	}
//
//	Response:
//	{
//	  "query": "sloan",
//	  "matches": [
//	    {
//	      "athlete_id": 3,
//	      "display_name": "Sloane",
//	      "similarity_score": 90.9,
//	      "matched_on": "Sloane",
//	      "source": "db",
//	      "appearance_count": 12
//	    }
//	  ],
//	  "total_matches": 1,
//	  "candidate_count": 48,
//	  "cache_hit": true,
//	  "duration_ms": 0
//	}
//
// Unlinked known athletes appear with "athlete_id": null and "source": "known".
// A database athlete appears at most once no matter how many of its names matched.
//
// # Tool: get_athlete
//
//	Request:  {"name": "get_athlete", "arguments": {"id": 3}}
//
// The response carries the athlete (id, display_name, aliases, appearance_count)
// and its appearances, each with a timestamped YouTube URL.
//
// # Tool: link_known_athletes
//
// Runs the linker in auto-confirm mode. An optional threshold overrides the
// configured link threshold. Only one run may proceed at a time.
//
// # Error Handling
//
// Errors are returned as MCPError values:
//
//	-32602  Invalid params (limit, threshold, id out of range)
//	-32603  Internal error (database failures)
//	-32001  Athlete not found
//	-32002  Link run already in progress
//	-32003  No known-athletes file configured
//	-32004  Empty query
//	-32005  No athletes to link against
package mcp
