// Package constant defines immutable application-level identifiers and build metadata.
package constant

// SearchTracksFn is the global function a Lua provider script must define.
const SearchTracksFn = "SearchTracks"

// SourceTemplate is a Go text/template for scaffolding new Lua provider files.
const SourceTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias track { title: string, url: string, duration: string|nil }


----- IMPORTS -----
--- END IMPORTS ---


----- VARIABLES -----
--- END VARIABLES ---


----- MAIN -----

--- Searches for tracks matching the given title.
-- The first element of the returned table is the one that gets downloaded.
-- Every url must point directly at an audio file.
-- @param query string Track title to search for
-- @return track[] Ranked table of tracks
function {{ .SearchTracksFn }}(query)
	return {}
end

--- END MAIN ---


----- HELPERS -----
--- END HELPERS ---

-- ex: ts=4 sw=4 et filetype=lua
`
