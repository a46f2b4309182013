package main

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"ewms/internal/api"
	"ewms/internal/stay"
)

// renderBedsTable prints the ward board. Stay clocks are colored by
// severity when writing to a terminal.
func renderBedsTable(out io.Writer, beds []api.BedView) {
	colorize := false
	if f, ok := out.(*os.File); ok {
		colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Bed", "Status", "Patient", "MRN", "Diagnosis", "Admitted", "Stay"})

	for _, bed := range beds {
		if bed.Patient == nil {
			t.AppendRow(table.Row{bed.ID, bed.Status, "", "", "", "", ""})
			continue
		}
		stayText := ""
		if bed.Stay != nil {
			stayText = bed.Stay.Text
			if colorize {
				stayText = severityColor(bed.Stay.Severity).Sprint(stayText)
			}
		}
		t.AppendRow(table.Row{
			bed.ID,
			bed.Status,
			bed.Patient.Name,
			bed.Patient.MRN,
			bed.Patient.Diagnosis,
			bed.Patient.VisitDate + " " + bed.Patient.VisitTime,
			stayText,
		})
	}
	t.Render()
}

func severityColor(severity stay.Severity) text.Colors {
	switch severity {
	case stay.SeverityCritical:
		return text.Colors{text.FgRed, text.Bold}
	case stay.SeverityWarning:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgGreen}
	}
}
