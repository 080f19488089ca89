// Package cli handles cmd line input for browsing the sorted app list, for DBG and testing various features
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/appsort/internal/logger"
	"github.com/bastiangx/appsort/internal/utils"
	"github.com/bastiangx/appsort/pkg/match"
	"github.com/bastiangx/appsort/pkg/order"
	"github.com/bastiangx/appsort/pkg/view"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	dimStyle = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#9893a5", Dark: "#6e6a86"})
)

// Reloader re-reads the items behind the view.
type Reloader interface {
	Reload() error
}

// InputHandler reads patterns and commands line by line and prints the
// filtered view. Lines starting with ':' are commands, anything else
// replaces the pattern.
type InputHandler struct {
	view         *view.View
	reloader     Reloader
	syntax       match.Syntax
	limit        int
	showSections bool
	in           io.Reader
	out          *log.Logger
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(v *view.View, reloader Reloader, syntax match.Syntax, limit int, showSections bool) *InputHandler {
	return NewInputHandlerWithIO(v, reloader, syntax, limit, showSections, os.Stdin, os.Stdout)
}

// NewInputHandlerWithIO is NewInputHandler reading from in and printing to out.
func NewInputHandlerWithIO(v *view.View, reloader Reloader, syntax match.Syntax, limit int, showSections bool, in io.Reader, out io.Writer) *InputHandler {
	if limit < 1 {
		limit = 1
	}
	v.Subscribe(func(ev view.Event) {
		log.Debugf("View %s: mode=%s rows=%d", ev.Kind, ev.Mode, ev.Rows)
	})
	return &InputHandler{
		view:         v,
		reloader:     reloader,
		syntax:       syntax,
		limit:        limit,
		showSections: showSections,
		in:           in,
		out:          logger.NewPlain(out),
	}
}

// Start begins the interface loop. It returns nil when the input ends or
// :quit is entered.
func (h *InputHandler) Start() error {
	h.out.Print("appsort CLI [BETA]")
	h.out.Print("type a pattern and press Enter, :help lists the commands (Ctrl+C to exit)")
	reader := bufio.NewReader(h.in)

	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			if quit := h.handleInput(line); quit {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// handleInput runs a single line and reports whether the loop should stop.
func (h *InputHandler) handleInput(line string) bool {
	h.requestCount++
	if !strings.HasPrefix(line, ":") {
		h.applyPattern(line)
		return false
	}

	cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "q", "quit", "exit":
		return true
	case "mode", "m":
		h.setMode(arg)
	case "syntax", "s":
		syntax, err := match.ParseSyntax(arg)
		if err != nil {
			log.Errorf("%v", err)
			return false
		}
		h.syntax = syntax
		h.out.Printf("syntax: %s", syntax)
		h.applyPattern(h.view.Pattern().Text)
	case "sections":
		h.printSections()
	case "goto", "g":
		h.gotoPrefix(arg)
	case "reload", "r":
		h.reload()
	case "clear", "c":
		h.applyPattern("")
	case "help", "h":
		h.printHelp()
	default:
		log.Errorf("Unknown command: %s", cmd)
	}
	return false
}

func (h *InputHandler) applyPattern(text string) {
	start := time.Now()
	if err := h.view.SetPattern(match.Pattern{Text: text, Syntax: h.syntax}); err != nil {
		log.Errorf("Invalid pattern: %v", err)
		return
	}
	log.Debugf("Took [ %v ] for pattern '%s'", time.Since(start), text)
	h.printRows()
}

func (h *InputHandler) setMode(arg string) {
	if arg != "" {
		mode, err := order.ParseMode(arg)
		if err != nil {
			log.Errorf("%v", err)
			return
		}
		h.view.SetMode(mode)
	}
	h.out.Printf("mode: %s (sorted by %s)", h.view.Mode(), h.view.SortRoleName())
	if arg != "" {
		h.printRows()
	}
}

func (h *InputHandler) printRows() {
	rows := h.view.Rows()
	if len(rows) == 0 {
		h.out.Warnf("No items match '%s'", h.view.Pattern().Text)
		return
	}

	mode := h.view.Mode()
	shown := min(h.limit, len(rows))
	header := ""
	for i, it := range rows[:shown] {
		if h.showSections {
			if hdr := sectionHeader(it.SortField(mode), mode); hdr != header || i == 0 {
				header = hdr
				h.out.Print(headerStyle.Render(header))
			}
		}
		line := fmt.Sprintf("%3d. %s", i, nameStyle.Render(it.Name))
		if it.Transliterated != "" && it.Transliterated != it.Name {
			line += " " + dimStyle.Render(it.Transliterated)
		}
		if mode == order.Alphabetic && it.Category != "" {
			line += " " + dimStyle.Render("["+it.Category+"]")
		}
		h.out.Print(line)
	}
	if shown < len(rows) {
		h.out.Printf("... %s more", utils.FormatWithCommas(len(rows)-shown))
	}
	h.out.Printf("%s items", utils.FormatWithCommas(len(rows)))
}

// sectionHeader names the group an item is listed under: the first letter of
// the transliteration, or the whole category.
func sectionHeader(field string, mode order.Mode) string {
	if field == "" {
		return "-"
	}
	if mode == order.Category {
		return field
	}
	return string(order.SectionRune(field))
}

func (h *InputHandler) printSections() {
	keys := h.view.SectionKeys()
	parts := make([]string, len(keys))
	for i, r := range keys {
		parts[i] = string(r)
	}
	h.out.Printf("sections: %s", strings.Join(parts, " "))
}

func (h *InputHandler) gotoPrefix(prefix string) {
	row := h.view.Locate(prefix)
	if row < 0 {
		h.out.Warnf("No item starts with '%s'", prefix)
		return
	}
	h.out.Printf("%3d. %s", row, nameStyle.Render(h.view.At(row).Name))
}

func (h *InputHandler) reload() {
	if h.reloader == nil {
		log.Error("No catalog file to reload")
		return
	}
	if err := h.reloader.Reload(); err != nil {
		log.Errorf("Reload failed: %v", err)
		return
	}
	h.view.Invalidate()
	h.out.Printf("reloaded: %s items", utils.FormatWithCommas(h.view.Len()))
}

func (h *InputHandler) printHelp() {
	for _, line := range []string{
		":mode alpha|category   switch the ordering",
		":syntax fixed|wildcard|regexp|fuzzy",
		":sections              list section keys",
		":goto <prefix>         find the first row starting with prefix",
		":reload                re-read the catalog file",
		":clear                 show all items",
		":quit",
	} {
		h.out.Print(line)
	}
}
