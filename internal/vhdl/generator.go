// Package vhdl renders a skeleton VHDL entity from the extracted port model.
package vhdl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/StinkyLord/xdc-to-vhdl/internal/model"
)

// Options controls the optional sections of the generated architecture.
type Options struct {
	// Signals emits internal signal declarations for every port.
	Signals bool
	// Assignments emits port/signal assignment statements. Assignments are
	// written against the internal signals, so callers that set Assignments
	// must also set Signals — the generator renders exactly what it is told.
	Assignments bool
	// EntityName overrides the entity name derived from the output file name.
	EntityName string
}

// EntityName derives the entity name from an output path: the base name with
// its extension stripped.
func EntityName(outputPath string) string {
	base := filepath.Base(outputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Write renders the entity and writes it to outputPath in a single write,
// replacing any existing file. If outputPath is "-", it writes to stdout.
// The entity name comes from Options.EntityName, or from the output file's
// base name when unset.
func Write(ports *model.PortSet, outputPath string, opts Options) error {
	name := opts.EntityName
	if name == "" {
		name = EntityName(outputPath)
	}
	text := Generate(ports, name, opts)

	if outputPath == "-" {
		_, err := os.Stdout.WriteString(text)
		return err
	}
	if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}

// Generate renders the complete VHDL source for the given port set. The output
// is fully determined by its inputs: same ports, name and options always yield
// byte-identical text.
//
// Sections, in order: library header, entity port list, architecture signal
// declarations (or a placeholder), port/signal assignments (or a placeholder
// body), closing.
func Generate(ports *model.PortSet, entityName string, opts Options) string {
	var b strings.Builder

	b.WriteString("library IEEE;\n")
	b.WriteString("use IEEE.STD_LOGIC_1164.ALL;\n")
	b.WriteString("use IEEE.NUMERIC_STD.ALL;\n\n")
	b.WriteString("-- Entity generated automatically from XDC file\n")
	b.WriteString("-- Port directions extracted from #! or ##! comments\n")
	fmt.Fprintf(&b, "entity %s is\n", entityName)

	writePortList(&b, ports)

	fmt.Fprintf(&b, "end entity %s;\n\n", entityName)
	fmt.Fprintf(&b, "architecture Behavioral of %s is\n", entityName)

	writeSignals(&b, ports, opts.Signals)

	b.WriteString("begin\n")

	writeBody(&b, ports, opts.Assignments)

	b.WriteString("end architecture Behavioral;\n")
	return b.String()
}

// dirField renders a direction in the port list, with blanks holding the
// column for unspecified directions.
func dirField(d model.Direction) string {
	if d == model.DirUnspecified {
		return "   "
	}
	return string(d)
}

// vectorType renders the std_logic_vector type covering the bus's index range,
// high downto low.
func vectorType(b model.Bus) string {
	high, low := b.Range()
	return fmt.Sprintf("std_logic_vector(%d downto %d)", high, low)
}

// writePortList emits the Port ( ... ); block: scalars first, then buses,
// each group alphabetical. Every entry ends with ';' except the last.
func writePortList(b *strings.Builder, ports *model.PortSet) {
	b.WriteString("    Port (\n")

	var entries []string
	for _, s := range ports.Scalars() {
		entries = append(entries, fmt.Sprintf("        %s : %s std_logic", s.Name, dirField(s.Dir)))
	}
	for _, bus := range ports.Buses() {
		entries = append(entries, fmt.Sprintf("        %s : %s %s", bus.Name, dirField(bus.ResolvedDirection()), vectorType(bus)))
	}

	for i, entry := range entries {
		if i == len(entries)-1 {
			b.WriteString(entry + "\n")
		} else {
			b.WriteString(entry + ";\n")
		}
	}

	b.WriteString("    );\n")
}

// writeSignals emits internal signal declarations. Bidirectional ports get a
// shadow-input, a shadow-output and a direction-control signal; every other
// port gets a single _Int signal matching its shape.
func writeSignals(b *strings.Builder, ports *model.PortSet, signals bool) {
	if !signals {
		b.WriteString("    -- Declare internal signals here if needed\n")
		return
	}

	b.WriteString("    -- Internal signals\n")

	for _, s := range ports.Scalars() {
		if s.Dir == model.DirInout {
			fmt.Fprintf(b, "    signal %s_In  : std_logic; -- Input from %s\n", s.Name, s.Name)
			fmt.Fprintf(b, "    signal %s_Out : std_logic := '0'; -- Output to %s\n", s.Name, s.Name)
			fmt.Fprintf(b, "    signal %s_Dir : std_logic := '0'; -- Direction control for %s (1=output, 0=input)\n", s.Name, s.Name)
		} else {
			fmt.Fprintf(b, "    signal %s_Int : std_logic := '0';\n", s.Name)
		}
	}

	for _, bus := range ports.Buses() {
		vec := vectorType(bus)
		if bus.ResolvedDirection() == model.DirInout {
			fmt.Fprintf(b, "    signal %s_In  : %s; -- Input from %s\n", bus.Name, vec, bus.Name)
			fmt.Fprintf(b, "    signal %s_Out : %s := (others => '0'); -- Output to %s\n", bus.Name, vec, bus.Name)
			fmt.Fprintf(b, "    signal %s_Dir : std_logic := '0'; -- Direction control for %s (1=output, 0=input)\n", bus.Name, bus.Name)
		} else {
			fmt.Fprintf(b, "    signal %s_Int : %s := (others => '0');\n", bus.Name, vec)
		}
	}
}

// writeBody emits the architecture body: port/signal assignments when
// requested, the logic placeholder, and comment-only usage examples for
// bidirectional ports.
func writeBody(b *strings.Builder, ports *model.PortSet, assignments bool) {
	if !assignments {
		b.WriteString("    -- Add your logic here\n")
		b.WriteString("    -- Connect internal signals to ports if needed\n")
		return
	}

	b.WriteString("    -- Port to signal assignments\n")

	for _, s := range ports.Scalars() {
		switch s.Dir {
		case model.DirIn:
			fmt.Fprintf(b, "    %s_Int <= %s;\n", s.Name, s.Name)
		case model.DirOut:
			fmt.Fprintf(b, "    %s <= %s_Int;\n", s.Name, s.Name)
		case model.DirInout:
			fmt.Fprintf(b, "    -- INOUT port %s requires special handling\n", s.Name)
			fmt.Fprintf(b, "    %s_In <= %s;\n", s.Name, s.Name)
			fmt.Fprintf(b, "    %s <= %s_Out when %s_Dir = '1' else 'Z';\n", s.Name, s.Name, s.Name)
			fmt.Fprintf(b, "    -- Control %s_Dir to switch between input and output modes\n\n", s.Name)
		default:
			fmt.Fprintf(b, "    -- Direction not specified for %s, add assignment manually\n", s.Name)
		}
	}

	for _, bus := range ports.Buses() {
		switch bus.ResolvedDirection() {
		case model.DirIn:
			fmt.Fprintf(b, "    %s_Int <= %s;\n", bus.Name, bus.Name)
		case model.DirOut:
			fmt.Fprintf(b, "    %s <= %s_Int;\n", bus.Name, bus.Name)
		case model.DirInout:
			fmt.Fprintf(b, "    -- INOUT bus %s requires special handling\n", bus.Name)
			fmt.Fprintf(b, "    %s_In <= %s;\n", bus.Name, bus.Name)
			fmt.Fprintf(b, "    %s <= %s_Out when %s_Dir = '1' else (others => 'Z');\n", bus.Name, bus.Name, bus.Name)
			fmt.Fprintf(b, "    -- Control %s_Dir to switch between input and output modes\n\n", bus.Name)
		default:
			fmt.Fprintf(b, "    -- Direction not specified for %s, add assignment manually\n", bus.Name)
		}
	}

	b.WriteString("\n")
	b.WriteString("    -- Add your logic here\n")
	b.WriteString("    -- Logic using internal signals\n")

	for _, s := range ports.Scalars() {
		if s.Dir != model.DirInout {
			continue
		}
		fmt.Fprintf(b, "    -- Example usage for %s:\n", s.Name)
		fmt.Fprintf(b, "    -- %s_Out <= some_internal_signal; -- Drive output\n", s.Name)
		fmt.Fprintf(b, "    -- some_other_signal <= %s_In;     -- Read input\n", s.Name)
		fmt.Fprintf(b, "    -- %s_Dir <= '1' when output_enable else '0'; -- Control direction\n\n", s.Name)
	}
	for _, bus := range ports.Buses() {
		if bus.ResolvedDirection() != model.DirInout {
			continue
		}
		fmt.Fprintf(b, "    -- Example usage for %s:\n", bus.Name)
		fmt.Fprintf(b, "    -- %s_Out <= some_internal_bus; -- Drive output\n", bus.Name)
		fmt.Fprintf(b, "    -- some_other_bus <= %s_In;     -- Read input\n", bus.Name)
		fmt.Fprintf(b, "    -- %s_Dir <= '1' when output_enable else '0'; -- Control direction\n\n", bus.Name)
	}
}
