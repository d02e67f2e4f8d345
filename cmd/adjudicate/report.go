package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/freeeve/referee/internal/casefile"
	"github.com/freeeve/referee/pkg/diplomacy"
)

var (
	passStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	infoStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
	cellStyle  = lipgloss.NewStyle().PaddingRight(3)
	indent     = lipgloss.NewStyle().PaddingLeft(2)
)

// renderResult prints one case: a status line, any mismatches, and with
// table set the verdict of every order.
func renderResult(w io.Writer, res *casefile.Result, table bool) {
	c := res.Case
	status := passStyle.Render("PASS")
	switch {
	case len(c.Expect) == 0:
		status = infoStyle.Render("DONE")
	case !res.Passed():
		status = failStyle.Render("FAIL")
	}
	line := status + " " + c.Name
	if c.Source != "" {
		line += " " + mutedStyle.Render("("+c.Source+")")
	}
	if res.Paradoxes > 0 {
		line += " " + mutedStyle.Render(fmt.Sprintf("[%d paradox rewrite(s)]", res.Paradoxes))
	}
	fmt.Fprintln(w, line)

	for _, v := range res.Voided {
		fmt.Fprintln(w, indent.Render(mutedStyle.Render("void ")+v))
	}
	for _, m := range res.Mismatches {
		fmt.Fprintln(w, indent.Render(failStyle.Render("✗ ")+m))
	}
	if table {
		fmt.Fprintln(w, indent.Render(verdictTable(res)))
		if res.After != "" {
			fmt.Fprintln(w, indent.Render(mutedStyle.Render("after: ")+res.After))
		}
	}
}

// verdictTable lays out order, verdict and note columns.
func verdictTable(res *casefile.Result) string {
	orders := diplomacy.CloneOrders(res.Orders)
	diplomacy.SortOrders(orders)

	cols := [3][]string{
		{headStyle.Render("order")},
		{headStyle.Render("verdict")},
		{headStyle.Render("note")},
	}
	for i := range orders {
		o := &orders[i]
		verdict := failStyle.Render("fails")
		if o.Verdict {
			verdict = passStyle.Render("succeeds")
		}
		cols[0] = append(cols[0], o.String())
		cols[1] = append(cols[1], verdict)
		cols[2] = append(cols[2], note(o))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cellStyle.Render(strings.Join(cols[0], "\n")),
		cellStyle.Render(strings.Join(cols[1], "\n")),
		strings.Join(cols[2], "\n"),
	)
}

func note(o *diplomacy.Order) string {
	if !o.Provenance.Rewritten {
		return ""
	}
	from := diplomacy.Order{
		UnitType:    o.Provenance.From.UnitType,
		Location:    o.Provenance.From.Location,
		Coast:       o.Provenance.From.Coast,
		Type:        o.Provenance.From.Type,
		Target:      o.Provenance.From.Target,
		TargetCoast: o.Provenance.From.TargetCoast,
		AuxUnitType: o.Provenance.From.AuxUnitType,
		AuxLoc:      o.Provenance.From.AuxLoc,
		AuxTarget:   o.Provenance.From.AuxTarget,
	}
	return mutedStyle.Render("was " + from.DSON())
}

func renderSummary(w io.Writer, passed, failed int) {
	summary := passStyle.Render(fmt.Sprintf("%d passed", passed))
	if failed > 0 {
		summary += ", " + failStyle.Render(fmt.Sprintf("%d failed", failed))
	}
	fmt.Fprintln(w, summary)
}
