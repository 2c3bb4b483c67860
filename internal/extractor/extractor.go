// Package extractor scans XDC constraint lines and builds the port model.
//
// An XDC port declaration looks like:
//
//	set_property PACKAGE_PIN W5 [get_ports {clk}] #!IN
//	set_property PACKAGE_PIN U16 [get_ports {led[0]}] ##!OUT
//
// Only set_property lines are considered, so commands like create_clock —
// which also reference get_ports — do not duplicate ports in the model.
package extractor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/StinkyLord/xdc-to-vhdl/internal/model"
)

// rePortRef matches the port reference on a set_property line. The bus
// alternative (name[index]) is tried before the scalar alternative, so a
// bracketed index is never swallowed as part of a scalar name. A malformed
// index (non-numeric, unclosed brace) fails the bus alternative and falls
// through to the scalar one.
var rePortRef = regexp.MustCompile(`get_ports\s+\{?(\w+)\[(\d+)\]\}|get_ports\s+\{?(\w+)\}?`)

// reDirection matches a direction annotation: one or more '#' followed by '!'
// and one of INOUT, IN, OUT in any case. Both #!IN and ##!IN forms occur in
// the wild. INOUT is listed first so it is not truncated to IN.
var reDirection = regexp.MustCompile(`(?i)#+!\s*(INOUT|IN|OUT)`)

// Extractor scans XDC input into a model.PortSet.
type Extractor struct {
	// Log receives per-line extraction decisions at debug level. Nil disables tracing.
	Log *log.Logger
}

// New creates an Extractor. logger may be nil.
func New(logger *log.Logger) *Extractor {
	return &Extractor{Log: logger}
}

// portRef is the parsed target of a get_ports reference.
type portRef struct {
	Base     string
	Index    int
	HasIndex bool
}

// ParseFile opens and scans an XDC file. A missing or unreadable file is an
// error; the caller is expected to report it and produce no output.
func (e *Extractor) ParseFile(path string) (*model.PortSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	ports, err := e.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ports, nil
}

// Parse scans XDC lines from r and returns the extracted port set. Lines that
// do not declare a port are skipped silently; duplicate declarations are
// first-wins no-ops. The returned set is not mutated afterwards.
func (e *Extractor) Parse(r io.Reader) (*model.PortSet, error) {
	ports := model.NewPortSet()

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()

		if isComment(line) {
			continue
		}
		if !qualifies(line) {
			continue
		}

		dir := matchDirection(line)
		ref, ok := matchPortRef(line)
		if !ok {
			e.debug("set_property line without port reference", "line", lineNo)
			continue
		}

		if ref.HasIndex {
			if ports.AddBusBit(ref.Base, ref.Index, dir) {
				e.debug("bus bit", "port", ref.Base, "index", ref.Index, "dir", string(dir), "line", lineNo)
			} else {
				e.debug("duplicate bus bit ignored", "port", ref.Base, "index", ref.Index, "line", lineNo)
			}
			continue
		}

		if ports.AddScalar(ref.Base, dir) {
			e.debug("scalar port", "port", ref.Base, "dir", string(dir), "line", lineNo)
		} else {
			e.debug("duplicate scalar ignored", "port", ref.Base, "line", lineNo)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ports, nil
}

// isComment reports whether the line is comment-only: its first non-whitespace
// character starts an XDC comment. Trailing #! annotations on declaration
// lines do not make a line a comment.
func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// qualifies reports whether the line is a property-assignment statement.
// Everything else (create_clock, timing constraints) is inert context even
// when it mentions get_ports.
func qualifies(line string) bool {
	return strings.Contains(line, "set_property")
}

// matchDirection returns the direction annotated on the line, or
// DirUnspecified. Only the first annotation on a line is taken.
func matchDirection(line string) model.Direction {
	m := reDirection.FindStringSubmatch(line)
	if m == nil {
		return model.DirUnspecified
	}
	return model.ParseDirection(m[1])
}

// matchPortRef returns the first get_ports reference on the line.
func matchPortRef(line string) (portRef, bool) {
	m := rePortRef.FindStringSubmatch(line)
	if m == nil {
		return portRef{}, false
	}
	if m[1] != "" {
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return portRef{}, false
		}
		return portRef{Base: m[1], Index: idx, HasIndex: true}, true
	}
	return portRef{Base: m[3]}, true
}

func (e *Extractor) debug(msg string, keyvals ...any) {
	if e.Log != nil {
		e.Log.Debug(msg, keyvals...)
	}
}
