package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/appsort/pkg/match"
)

// tomlFile is the on-disk layout of a TOML catalog
type tomlFile struct {
	Items []Item `toml:"item"`
}

// Load reads and normalizes every item of a catalog file.
func Load(path string) ([]Item, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	if err := ValidateFileFormat(path, format); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer file.Close()

	items, err := Decode(bufio.NewReader(file), format)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	log.Debugf("Loaded %d items from %s (%s)", len(items), path, format)
	return items, nil
}

// Decode reads items in the given format and normalizes them.
func Decode(r io.Reader, format FileFormat) ([]Item, error) {
	var (
		raw []Item
		err error
	)
	switch format {
	case FormatTOML:
		var f tomlFile
		_, err = toml.NewDecoder(r).Decode(&f)
		raw = f.Items
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&raw)
	case FormatText:
		raw, err = decodeText(r)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(raw))
	for i, it := range raw {
		n, err := normalize(it)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, n)
	}
	return items, nil
}

// decodeText parses tab separated lines. Blank lines and lines starting with
// '#' are skipped; trailing columns are optional.
func decodeText(r io.Reader) ([]Item, error) {
	var items []Item
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cols := strings.Split(text, "\t")
		it := Item{Name: cols[0]}
		if len(cols) > 1 {
			it.Transliterated = cols[1]
		}
		if len(cols) > 2 {
			it.Category = cols[2]
		}
		if len(cols) > 3 && cols[3] != "" {
			it.Initials = strings.Split(cols[3], ",")
		}
		if strings.TrimSpace(it.Name) == "" {
			return nil, fmt.Errorf("line %d: %w", line, ErrEmptyName)
		}
		items = append(items, it)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read line %d: %w", line+1, err)
	}
	return items, nil
}

// Save writes items to path in the format matching its extension.
func Save(path string, items []Item) error {
	format, err := DetectFileFormat(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create catalog %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := Encode(w, format, items); err != nil {
		return fmt.Errorf("failed to write catalog %s: %w", path, err)
	}
	return w.Flush()
}

// Encode writes items in the given format.
func Encode(w io.Writer, format FileFormat, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(tomlFile{Items: items})
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(items)
	case FormatText:
		for i, it := range items {
			if err := checkTextFields(it); err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
			_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				it.Name, it.Transliterated, it.Category, strings.Join(it.Initials, ","))
			if err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

func checkTextFields(it Item) error {
	for _, f := range []string{it.Name, it.Transliterated, it.Category} {
		if strings.ContainsAny(f, "\t\r\n") {
			return fmt.Errorf("%w: %q", ErrTextField, f)
		}
	}
	for _, in := range it.Initials {
		if strings.ContainsAny(in, "\t\r\n"+match.InitialsSeparator) {
			return fmt.Errorf("%w: initial %q", ErrTextField, in)
		}
	}
	return nil
}
