package cli

import (
	"fmt"

	"github.com/idilsaglam/learn/internal/model"
	"github.com/idilsaglam/learn/internal/ui"
)

func ok(opt Options, msg string)   { ui.OK(opt.Stdout, msg) }
func fail(opt Options, msg string) { ui.Fail(opt.Stderr, msg) }

func printList(opt Options, filter string, recs []model.Record) {
	w := opt.Stdout
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d",
		ui.CFor(w, t.Title, "Todos"),
		ui.CFor(w, t.Accent, "Total"), len(recs),
	)
	if filter != "" {
		header += "  " + ui.CFor(w, t.Muted, "search: "+filter)
	}

	lines := []string{header, ""}
	lines = append(lines, recordLines(opt, recs)...)
	lines = append(lines, "")
	lines = append(lines, ui.CFor(w, t.Muted, "Tip: add with `learn add \"Learn Go\"`"))
	ui.Panel(w, lines)
}

func recordLines(opt Options, recs []model.Record) []string {
	w := opt.Stdout
	t := ui.Current()
	if len(recs) == 0 {
		return []string{ui.CFor(w, t.Muted, "no todos")}
	}
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		idx := fmt.Sprintf("%2d.", r.ID)
		box, color := t.BoxUnchecked, t.Pending
		if r.Completed {
			box, color = t.BoxChecked, t.Success
		}
		title := r.Title
		if len(title) > 80 {
			title = title[:77] + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.CFor(w, ui.Dim(), idx), ui.CFor(w, color, box), title))
	}
	return out
}
