package extractor

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/StinkyLord/xdc-to-vhdl/internal/model"
)

// testdataDir returns the absolute path to the repo-root testdata directory.
func testdataDir() string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "..", "..")
	return filepath.Join(root, "testdata")
}

func parseString(t *testing.T, input string) *model.PortSet {
	t.Helper()
	ports, err := New(nil).Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return ports
}

// ============================================================
// Per-line rules
// ============================================================

func TestParse_ScalarWithDirection(t *testing.T) {
	ports := parseString(t, "set_property PACKAGE_PIN A1 [get_ports {clk}] #!IN\n")

	scalars := ports.Scalars()
	if len(scalars) != 1 {
		t.Fatalf("got %d scalars, want 1", len(scalars))
	}
	if scalars[0].Name != "clk" || scalars[0].Dir != model.DirIn {
		t.Errorf("got %s: %q, want clk: in", scalars[0].Name, scalars[0].Dir)
	}
}

func TestParse_BusBits(t *testing.T) {
	ports := parseString(t,
		"set_property PACKAGE_PIN U16 [get_ports {led[0]}] #!OUT\n"+
			"set_property PACKAGE_PIN E19 [get_ports {led[1]}] #!OUT\n")

	buses := ports.Buses()
	if len(buses) != 1 {
		t.Fatalf("got %d buses, want 1", len(buses))
	}
	high, low := buses[0].Range()
	if high != 1 || low != 0 {
		t.Errorf("led range = (%d, %d), want (1, 0)", high, low)
	}
	if d := buses[0].ResolvedDirection(); d != model.DirOut {
		t.Errorf("led direction = %q, want out", d)
	}
}

func TestParse_CommentLinesSkipped(t *testing.T) {
	ports := parseString(t,
		"# set_property PACKAGE_PIN B15 [get_ports {disabled}] #!IN\n"+
			"  ## also a comment: set_property [get_ports {x}]\n")
	if !ports.Empty() {
		t.Errorf("comment-only lines produced ports: scalars=%v buses=%v", ports.Scalars(), ports.Buses())
	}
}

// TestParse_NonSetPropertySkipped: create_clock references get_ports too, but
// only set_property lines may declare ports.
func TestParse_NonSetPropertySkipped(t *testing.T) {
	ports := parseString(t, "create_clock -add -name sys_clk_pin -period 10.00 [get_ports {clk}]\n")
	if !ports.Empty() {
		t.Errorf("create_clock line produced ports: %v", ports.Scalars())
	}
}

func TestParse_DuplicateScalarFirstWins(t *testing.T) {
	ports := parseString(t,
		"set_property PACKAGE_PIN W5 [get_ports {clk}] #!IN\n"+
			"set_property IOSTANDARD LVCMOS33 [get_ports {clk}]\n")

	scalars := ports.Scalars()
	if len(scalars) != 1 {
		t.Fatalf("got %d scalars, want 1", len(scalars))
	}
	if scalars[0].Dir != model.DirIn {
		t.Errorf("clk direction = %q, want in (from first declaration)", scalars[0].Dir)
	}
}

func TestParse_DirectionDoubleHash(t *testing.T) {
	ports := parseString(t, "set_property PACKAGE_PIN E19 [get_ports {led}] ##!OUT\n")
	if d := ports.Scalars()[0].Dir; d != model.DirOut {
		t.Errorf("##!OUT parsed as %q, want out", d)
	}
}

func TestParse_DirectionCaseInsensitive(t *testing.T) {
	ports := parseString(t, "set_property PACKAGE_PIN E19 [get_ports {sda}] #!inout\n")
	if d := ports.Scalars()[0].Dir; d != model.DirInout {
		t.Errorf("#!inout parsed as %q, want inout", d)
	}
}

func TestParse_NoDirectionAnnotation(t *testing.T) {
	ports := parseString(t, "set_property PACKAGE_PIN U18 [get_ports {btn}]\n")
	if d := ports.Scalars()[0].Dir; d != model.DirUnspecified {
		t.Errorf("unannotated port direction = %q, want unspecified", d)
	}
}

func TestParse_SetPropertyWithoutPortRef(t *testing.T) {
	ports := parseString(t, "set_property CONFIG_VOLTAGE 3.3 [current_design]\n")
	if !ports.Empty() {
		t.Errorf("line without get_ports produced ports: %v", ports.Scalars())
	}
}

// ============================================================
// Matcher unit tests against literal lines
// ============================================================

func TestMatchPortRef_BusForm(t *testing.T) {
	ref, ok := matchPortRef("set_property PACKAGE_PIN U16 [get_ports {led[3]}] #!OUT")
	if !ok {
		t.Fatal("matchPortRef did not match bus form")
	}
	if !ref.HasIndex || ref.Base != "led" || ref.Index != 3 {
		t.Errorf("got %+v, want base=led index=3", ref)
	}
}

func TestMatchPortRef_ScalarForm(t *testing.T) {
	for _, line := range []string{
		"set_property PACKAGE_PIN W5 [get_ports {clk}]",
		"set_property PACKAGE_PIN W5 [get_ports clk]",
	} {
		ref, ok := matchPortRef(line)
		if !ok {
			t.Errorf("matchPortRef did not match: %s", line)
			continue
		}
		if ref.HasIndex || ref.Base != "clk" {
			t.Errorf("matchPortRef(%q) = %+v, want scalar clk", line, ref)
		}
	}
}

// TestMatchPortRef_MalformedIndexFallsBackToScalar: a non-numeric index fails
// the bus alternative and the scalar alternative captures the base name.
func TestMatchPortRef_MalformedIndexFallsBackToScalar(t *testing.T) {
	ref, ok := matchPortRef("set_property PACKAGE_PIN U16 [get_ports {led[x]}]")
	if !ok {
		t.Fatal("matchPortRef did not match at all")
	}
	if ref.HasIndex {
		t.Errorf("malformed index matched as bus: %+v", ref)
	}
	if ref.Base != "led" {
		t.Errorf("base = %q, want led", ref.Base)
	}
}

func TestMatchPortRef_FirstMatchOnly(t *testing.T) {
	ref, ok := matchPortRef("set_property X [get_ports {a}] [get_ports {b}]")
	if !ok || ref.Base != "a" {
		t.Errorf("got %+v ok=%v, want first reference a", ref, ok)
	}
}

func TestMatchDirection_InoutNotTruncated(t *testing.T) {
	// INOUT must not match as IN
	if d := matchDirection("... #!INOUT"); d != model.DirInout {
		t.Errorf("matchDirection(#!INOUT) = %q, want inout", d)
	}
}

func TestMatchDirection_FirstMatchOnly(t *testing.T) {
	if d := matchDirection("... #!OUT trailing #!IN"); d != model.DirOut {
		t.Errorf("got %q, want out (first annotation on the line)", d)
	}
}

func TestMatchDirection_None(t *testing.T) {
	if d := matchDirection("set_property PACKAGE_PIN U18 [get_ports {btn}] # plain comment"); d != model.DirUnspecified {
		t.Errorf("got %q, want unspecified", d)
	}
}

// ============================================================
// Files
// ============================================================

func TestParseFile_Missing(t *testing.T) {
	_, err := New(nil).ParseFile(filepath.Join(testdataDir(), "no-such-file.xdc"))
	if err == nil {
		t.Fatal("ParseFile on a missing file returned nil error")
	}
}

func TestParseFile_Basys3Sample(t *testing.T) {
	ports, err := New(nil).ParseFile(filepath.Join(testdataDir(), "basys3.xdc"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	scalars := ports.Scalars()
	if len(scalars) != 2 {
		t.Fatalf("got %d scalars %v, want 2 (btn, clk)", len(scalars), scalars)
	}
	if scalars[0].Name != "btn" || scalars[0].Dir != model.DirUnspecified {
		t.Errorf("scalars[0] = %+v, want btn with unspecified direction", scalars[0])
	}
	if scalars[1].Name != "clk" || scalars[1].Dir != model.DirIn {
		t.Errorf("scalars[1] = %+v, want clk: in", scalars[1])
	}

	buses := ports.Buses()
	if len(buses) != 3 {
		t.Fatalf("got %d buses %v, want 3 (led, pmod, sw)", len(buses), buses)
	}

	led := buses[0]
	if led.Name != "led" {
		t.Fatalf("buses[0] = %q, want led", led.Name)
	}
	if high, low := led.Range(); high != 2 || low != 0 {
		t.Errorf("led range = (%d, %d), want (2, 0)", high, low)
	}
	if d := led.ResolvedDirection(); d != model.DirOut {
		t.Errorf("led direction = %q, want out", d)
	}
	// led[0] appears twice in the fixture; first wins
	if len(led.Bits) != 3 {
		t.Errorf("led has %d bits, want 3 (duplicate led[0] ignored)", len(led.Bits))
	}

	pmod := buses[1]
	if pmod.Name != "pmod" || pmod.ResolvedDirection() != model.DirInout {
		t.Errorf("buses[1] = %s: %q, want pmod: inout", pmod.Name, pmod.ResolvedDirection())
	}

	sw := buses[2]
	if sw.Name != "sw" {
		t.Fatalf("buses[2] = %q, want sw", sw.Name)
	}
	// sw declares indices 0 and 2 — the gap is silently covered
	if high, low := sw.Range(); high != 2 || low != 0 {
		t.Errorf("sw range = (%d, %d), want (2, 0)", high, low)
	}
}
