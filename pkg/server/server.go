package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/appsort/pkg/config"
	"github.com/bastiangx/appsort/pkg/match"
	"github.com/bastiangx/appsort/pkg/order"
	"github.com/bastiangx/appsort/pkg/view"
)

// Reloader re-reads the item source backing the view.
type Reloader interface {
	Reload() error
}

// Server handles the IPC for the view
type Server struct {
	view     *view.View
	reloader Reloader
	config   *config.Config
	syntax   match.Syntax
	dec      *msgpack.Decoder
	enc      *msgpack.Encoder
	out      *bufio.Writer
	mu       sync.Mutex
	requests int
}

// NewServer creates a new server using stdin/stdout for IPC. reloader may be
// nil when the items did not come from a file.
func NewServer(v *view.View, reloader Reloader, cfg *config.Config) *Server {
	return NewServerWithIO(v, reloader, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(v *view.View, reloader Reloader, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	out := bufio.NewWriter(w)
	return &Server{
		view:     v,
		reloader: reloader,
		config:   cfg,
		syntax:   cfg.Syntax(),
		dec:      msgpack.NewDecoder(bufio.NewReader(r)),
		enc:      msgpack.NewEncoder(out),
		out:      out,
	}
}

// Start sends a ready message and serves requests until the input ends.
// It returns nil on EOF and the read error otherwise.
func (s *Server) Start() error {
	log.Debug("Starting server")
	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			log.Errorf("Reading request: %v", err)
			return err
		}
		s.requests++
		s.handleRequest(raw)
	}
}

// Requests returns the number of requests read so far.
func (s *Server) Requests() int {
	return s.requests
}

func (s *Server) handleRequest(raw msgpack.RawMessage) {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		log.Errorf("Decoding request: %v", err)
		s.sendError("", "invalid request", CodeBadRequest)
		return
	}

	switch req.Action {
	case "", ActionList:
		s.handleList(req)
	case ActionMode:
		s.handleMode(req)
	case ActionSections:
		s.sendResponse(SectionsResponse{ID: req.ID, Sections: sectionStrings(s.view.SectionKeys())})
	case ActionLocate:
		s.handleLocate(req)
	case ActionReload:
		s.handleReload(req)
	case ActionHealth:
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), CodeNotFound)
	}
}

// handleList applies the request pattern and replies with the rows in view.
// A request without a syntax uses default_syntax. The limit defaults to and
// is capped by max_limit.
func (s *Server) handleList(req Request) {
	if n := utf8.RuneCountInString(req.Pattern); n > s.config.Server.MaxPattern {
		s.sendError(req.ID, fmt.Sprintf("pattern exceeds maximum length of %d characters", s.config.Server.MaxPattern), CodeBadRequest)
		return
	}
	syntax := s.syntax
	if req.Syntax != "" {
		parsed, err := match.ParseSyntax(req.Syntax)
		if err != nil {
			s.sendError(req.ID, err.Error(), CodeBadRequest)
			return
		}
		syntax = parsed
	}

	limit := req.Limit
	if limit < 1 || limit > s.config.Server.MaxLimit {
		limit = s.config.Server.MaxLimit
	}

	start := time.Now()
	if err := s.view.SetPattern(match.Pattern{Text: req.Pattern, Syntax: syntax}); err != nil {
		s.sendError(req.ID, err.Error(), CodeBadRequest)
		return
	}
	rows := s.view.Rows()
	sections := s.view.SectionKeys()

	items := make([]ListItem, 0, min(limit, len(rows)))
	for row, it := range rows[:min(limit, len(rows))] {
		items = append(items, ListItem{
			Name:           it.Name,
			Transliterated: it.Transliterated,
			Category:       it.Category,
			ID:             it.ID,
			Row:            row,
		})
	}
	elapsed := time.Since(start)

	s.sendResponse(ListResponse{
		ID:        req.ID,
		Items:     items,
		Count:     len(rows),
		Sections:  sectionStrings(sections),
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleMode(req Request) {
	if req.Mode != "" {
		mode, err := order.ParseMode(req.Mode)
		if err != nil {
			s.sendError(req.ID, err.Error(), CodeBadRequest)
			return
		}
		s.view.SetMode(mode)
	}
	s.sendResponse(ModeResponse{
		ID:     req.ID,
		Status: "ok",
		Mode:   s.view.Mode().String(),
		Role:   s.view.SortRoleName(),
	})
}

func (s *Server) handleLocate(req Request) {
	if utf8.RuneCountInString(req.Pattern) > s.config.Server.MaxPattern {
		s.sendError(req.ID, "prefix too long", CodeBadRequest)
		return
	}
	s.sendResponse(LocateResponse{ID: req.ID, Row: s.view.Locate(req.Pattern)})
}

func (s *Server) handleReload(req Request) {
	if s.reloader == nil {
		s.sendError(req.ID, "no catalog file to reload", CodeInternal)
		return
	}
	if err := s.reloader.Reload(); err != nil {
		log.Errorf("Reload failed: %v", err)
		s.sendError(req.ID, fmt.Sprintf("reload failed: %v", err), CodeInternal)
		return
	}
	s.view.Invalidate()
	s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", Count: s.view.Len()})
}

// sendResponse encodes the response and flushes it to the client.
func (s *Server) sendResponse(response any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.out.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	log.Debugf("Request %q failed (%d): %s", id, code, message)
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}

func sectionStrings(keys []rune) []string {
	out := make([]string, len(keys))
	for i, r := range keys {
		out[i] = string(r)
	}
	return out
}
