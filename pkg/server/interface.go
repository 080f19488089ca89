/*
Package server implements msgpack IPC for the app list view.

The server reads msgpack encoded requests from stdin and writes one msgpack
response per request to stdout. Requests are handled one at a time, in the
order they arrive, so every response reflects the requests before it.

# IPC

Every request carries an ID echoed in its response and an action selecting
the operation. A request without an action is a list request:

	{"id": "r1", "p": "q,n", "s": "fixed", "l": 20}

The server filters the view with the pattern and replies with the rows in
view order, the total row count, the section keys and the time taken in
microseconds:

	{"id": "r1", "items": [{"n": "Quick Notes", "t": "Quick Notes", "c": "Office", "id": "notes", "row": 0}], "c": 1, "sec": ["O"], "t": 85}

The ordering mode is switched, or queried when "m" is empty, with:

	{"id": "r2", "action": "mode", "m": "category"}

Other actions are "sections", "locate" (with "p" as prefix), "reload" and
"health". Failures are reported as

	{"id": "r3", "e": "unknown action: sort", "c": 404}

with code 400 for malformed requests, 404 for unknown actions and 500 for
internal failures.
*/
package server

// Actions understood by the server.
const (
	ActionList     = "list"
	ActionMode     = "mode"
	ActionSections = "sections"
	ActionLocate   = "locate"
	ActionReload   = "reload"
	ActionHealth   = "health"
)

// Request is the union of all request fields. Unused fields are omitted.
type Request struct {
	ID      string `msgpack:"id"`
	Action  string `msgpack:"action,omitempty"`
	Pattern string `msgpack:"p,omitempty"`
	Syntax  string `msgpack:"s,omitempty"`
	Limit   int    `msgpack:"l,omitempty"`
	Mode    string `msgpack:"m,omitempty"`
}

// ListItem is one row of a list response.
type ListItem struct {
	Name           string `msgpack:"n"`
	Transliterated string `msgpack:"t"`
	Category       string `msgpack:"c"`
	ID             string `msgpack:"id,omitempty"`
	Row            int    `msgpack:"row"`
}

// ListResponse answers a list request.
type ListResponse struct {
	ID        string     `msgpack:"id"`
	Items     []ListItem `msgpack:"items"`
	Count     int        `msgpack:"c"`
	Sections  []string   `msgpack:"sec"`
	TimeTaken int64      `msgpack:"t"`
}

// ModeResponse answers a mode request with the active mode.
type ModeResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Mode   string `msgpack:"m"`
	Role   string `msgpack:"role"`
}

// SectionsResponse carries the section keys of the rows in view.
type SectionsResponse struct {
	ID       string   `msgpack:"id"`
	Sections []string `msgpack:"sec"`
}

// LocateResponse carries the first row matching a prefix, or -1.
type LocateResponse struct {
	ID  string `msgpack:"id"`
	Row int    `msgpack:"row"`
}

// StatusResponse is sent for health and reload requests.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
	Count  int    `msgpack:"c,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// Error codes
const (
	CodeBadRequest = 400
	CodeNotFound   = 404
	CodeInternal   = 500
)
