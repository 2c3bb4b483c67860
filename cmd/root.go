package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/StinkyLord/xdc-to-vhdl/internal/extractor"
	"github.com/StinkyLord/xdc-to-vhdl/internal/vhdl"
)

const toolVersion = "1.0.0"

var (
	flagSignals     bool
	flagAssignments bool
	flagEntity      string
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "xdc-to-vhdl",
	Short: "XDC to VHDL entity skeleton generator",
	Long: `xdc-to-vhdl reads a Xilinx XDC constraints file and generates a skeleton
VHDL entity from the pin declarations found in it.

Port directions are taken from #! or ##! comments on set_property lines:
  set_property PACKAGE_PIN W5  [get_ports {clk}]    #!IN
  set_property PACKAGE_PIN U16 [get_ports {led[0]}] #!OUT

Indexed pins (led[0], led[1], ...) are collapsed into a single
std_logic_vector port covering the full index range.`,
}

var generateCmd = &cobra.Command{
	Use:   "generate <input.xdc> <output.vhd>",
	Short: "Generate a VHDL entity from an XDC file",
	Long: `Parse an XDC constraints file and write a VHDL entity skeleton.

The entity name is the output file's base name without extension, unless
--entity is given. Use '-' as the output path to write to stdout (requires
--entity).

Examples:
  xdc-to-vhdl generate basys3.xdc top.vhd
  xdc-to-vhdl generate basys3.xdc top.vhd --signals
  xdc-to-vhdl generate basys3.xdc top.vhd --assignments
  xdc-to-vhdl generate basys3.xdc - --entity top`,
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVarP(&flagSignals, "signals", "s", false,
		"Generate internal signal declarations for every port")
	generateCmd.Flags().BoolVarP(&flagAssignments, "assignments", "a", false,
		"Generate signal declarations and port/signal assignments (implies --signals)")
	generateCmd.Flags().StringVar(&flagEntity, "entity", "",
		"Entity name (default: output file base name; required when output is '-')")
	generateCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"Log per-line extraction decisions to stderr")

	rootCmd.AddCommand(generateCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	inputPath, outputPath := args[0], args[1]

	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file %q does not exist: %w", inputPath, err)
	}
	if outputPath == "-" && flagEntity == "" {
		return fmt.Errorf("--entity is required when writing to stdout")
	}

	var logger *log.Logger
	if flagVerbose {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: false,
			Level:           log.DebugLevel,
			Prefix:          "xdc-to-vhdl",
		})
	}

	fmt.Fprintf(os.Stderr, "xdc-to-vhdl v%s\n", toolVersion)
	fmt.Fprintf(os.Stderr, "Parsing: %s\n", inputPath)

	ports, err := extractor.New(logger).ParseFile(inputPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Found %d scalar port(s) and %d bus(es)\n",
		len(ports.Scalars()), len(ports.Buses()))

	opts := vhdl.Options{
		// Assignments reference the internal signals, so requesting them
		// forces signal declarations on.
		Signals:     flagSignals || flagAssignments,
		Assignments: flagAssignments,
		EntityName:  flagEntity,
	}
	if err := vhdl.Write(ports, outputPath, opts); err != nil {
		return err
	}

	// The direction summary is part of the tool's contract and goes to stdout,
	// except when the generated VHDL itself occupies stdout.
	summaryOut := io.Writer(os.Stdout)
	if outputPath == "-" {
		summaryOut = os.Stderr
	} else {
		fmt.Fprintf(os.Stderr, "VHDL written to: %s\n", outputPath)
	}
	vhdl.WriteSummary(summaryOut, ports)

	return nil
}
