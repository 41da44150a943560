// Package registry loads and saves the known-athletes file.
//
// The file is a JSON document with free-form metadata and a list of athletes
// that may or may not be linked to a database athlete:
//
//	{
//	  "meta": {"source": "season roster"},
//	  "athletes": [
//	    {"full_name": "Brooklyn Schoon", "first_name": "Brooklyn", "db_athlete_id": null},
//	    {"full_name": "Esme Newton-Pawlus", "first_name": "Esme", "db_athlete_id": 1}
//	  ]
//	}
//
// A missing file is an empty registry. Meta is preserved verbatim on Save.
// Every change bumps Revision so callers can cache data derived from Records.
package registry
