package vhdl

import (
	"fmt"
	"io"

	"github.com/StinkyLord/xdc-to-vhdl/internal/model"
)

// WriteSummary prints the resolved direction of every extracted port, scalars
// first then buses, both alphabetical. Ports without a direction annotation
// are marked NOT SPECIFIED.
func WriteSummary(w io.Writer, ports *model.PortSet) {
	fmt.Fprintln(w, "\nDirection summary:")
	for _, s := range ports.Scalars() {
		fmt.Fprintf(w, "  %s: %s\n", s.Name, summaryDir(s.Dir))
	}
	for _, b := range ports.Buses() {
		fmt.Fprintf(w, "  %s: %s\n", b.Name, summaryDir(b.ResolvedDirection()))
	}
}

func summaryDir(d model.Direction) string {
	if d == model.DirUnspecified {
		return "NOT SPECIFIED"
	}
	return string(d)
}
