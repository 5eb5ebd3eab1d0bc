package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/viper"

	"stashline/internal/aggregate"
	"stashline/internal/domain"
	"stashline/internal/engine"
	"stashline/internal/logger"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))
	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))
	incompleteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Width(7)
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printOK(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printOK(data any) error {
	return printJSON(map[string]any{"ok": true, "data": data})
}

// printMessage prints msg in text mode and {ok, message, data} in JSON mode.
func printMessage(msg string, data any) error {
	if viper.GetBool("json") {
		return printJSON(map[string]any{"ok": true, "message": msg, "data": data})
	}
	fmt.Println(msg)
	return nil
}

// reportError renders a failed command and returns the exit code. A
// zero-effect operation is reported but does not fail the process.
func reportError(err error) int {
	code := 1
	if errors.Is(err, domain.ErrNothingToDo) {
		code = 0
	}
	logger.WithError(slog.Default(), err).Debug("command failed", "kind", errorKind(err), "exit", code)
	if viper.GetBool("json") {
		out := map[string]any{"ok": false, "error": err.Error(), "kind": errorKind(err)}
		var amb *domain.AmbiguousError
		if errors.As(err, &amb) {
			out["candidates"] = amb.Candidates
		}
		var nf *domain.NotFoundError
		if errors.As(err, &nf) && len(nf.Suggestions) > 0 {
			out["suggestions"] = nf.Suggestions
		}
		_ = printJSON(out)
		return code
	}
	if code == 0 {
		fmt.Println(mutedStyle.Render(err.Error()))
		return code
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
	var amb *domain.AmbiguousError
	if errors.As(err, &amb) {
		fmt.Fprintln(os.Stderr, mutedStyle.Render("re-run with --pick <n> to choose"))
	}
	return code
}

func errorKind(err error) string {
	var (
		nf  *domain.NotFoundError
		amb *domain.AmbiguousError
		iq  *domain.InvalidQuantityError
		dup *domain.DuplicateNameError
	)
	switch {
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &amb):
		return "ambiguous"
	case errors.As(err, &iq):
		return "invalid_quantity"
	case errors.As(err, &dup):
		return "duplicate_name"
	case errors.Is(err, domain.ErrEmptyName):
		return "empty_name"
	case errors.Is(err, domain.ErrNothingToDo):
		return "nothing_to_do"
	case errors.Is(err, domain.ErrReservedResource):
		return "reserved_resource"
	case errors.Is(err, domain.ErrInvalidScope):
		return "invalid_scope"
	case errors.Is(err, engine.ErrEmptyCatalog):
		return "empty_catalog"
	}
	return "error"
}

func printStatusResult(res engine.StatusResult, verb string) error {
	if viper.GetBool("json") {
		return printOK(res)
	}
	if len(res.Changed) == 0 {
		fmt.Println(mutedStyle.Render(fmt.Sprintf("%s is already %s", res.Name, verb)))
		return nil
	}
	for _, c := range res.Changed {
		fmt.Printf("%s %s\n", kindStyle.Render(string(c.Kind)), c.Name)
	}
	fmt.Printf("%d marked %s\n", len(res.Changed), verb)
	return nil
}

func styleStatus(s domain.Status, tracked bool) string {
	switch {
	case s == domain.StatusComplete:
		return completeStyle.Render(string(s))
	case !tracked:
		return mutedStyle.Render("untracked")
	}
	return incompleteStyle.Render(string(s))
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	return tw
}

func renderNeeds(rows []engine.NeedRow) {
	if len(rows) == 0 {
		fmt.Println(completeStyle.Render("nothing needed"))
		return
	}
	tw := newTable()
	tw.AppendHeader(table.Row{"Item", "Name", "Find (FIR)", "Collect", "Total"})
	total := 0
	for _, r := range rows {
		tw.AppendRow(table.Row{r.ShortName, r.Name, r.Find, r.Collect, r.Total})
		total += r.Total
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d items", len(rows)), "", "", total})
	tw.Render()
}

func renderQuests(rows []engine.QuestRow) {
	tw := newTable()
	tw.AppendHeader(table.Row{"Quest", "Giver", "Lvl", "Status", "Objectives"})
	for _, q := range rows {
		title := q.Title
		if q.Kappa {
			title += mutedStyle.Render(" (kappa)")
		}
		if !q.Eligible && q.Status == domain.StatusIncomplete {
			title += mutedStyle.Render(" [locked]")
		}
		tw.AppendRow(table.Row{title, q.Giver, q.Level, styleStatus(q.Status, q.Tracked), objectiveLines(q.Objectives)})
	}
	tw.Render()
}

func objectiveLines(objs []engine.ObjectiveRow) string {
	out := ""
	for i, o := range objs {
		if i > 0 {
			out += "\n"
		}
		line := fmt.Sprintf("%s %s", o.Kind, o.Target)
		if o.Kind.Countable() {
			line = fmt.Sprintf("%s %d/%d", line, o.Have, o.Quantity)
		} else if o.Quantity > 1 {
			line = fmt.Sprintf("%s x%d", line, o.Quantity)
		}
		if o.Description != "" {
			line += mutedStyle.Render(" " + o.Description)
		}
		out += line
	}
	return out
}

func requirementLines(reqs []engine.RequirementRow) string {
	out := ""
	for i, r := range reqs {
		if i > 0 {
			out += "\n"
		}
		if r.Kind == domain.RequirementModule {
			out += "module " + r.Target
			continue
		}
		out += fmt.Sprintf("%s %d/%d", r.Target, r.Have, r.Quantity)
	}
	return out
}

func renderModules(rows []engine.ModuleRow) {
	tw := newTable()
	tw.AppendHeader(table.Row{"ID", "Module", "Status", "Requirements"})
	for _, m := range rows {
		name := m.Name
		if !m.Eligible && m.Status == domain.StatusIncomplete {
			name += mutedStyle.Render(" [locked]")
		}
		tw.AppendRow(table.Row{m.ID, name, styleStatus(m.Status, m.Tracked), requirementLines(m.Requirements)})
	}
	tw.Render()
}

func renderBarters(rows []engine.BarterRow) {
	if len(rows) == 0 {
		fmt.Println(mutedStyle.Render("no barters defined"))
		return
	}
	tw := newTable()
	tw.AppendHeader(table.Row{"Barter", "Give", "Receive"})
	for _, b := range rows {
		receive := ""
		for i, r := range b.Receive {
			if i > 0 {
				receive += "\n"
			}
			receive += fmt.Sprintf("%s x%d", r.Target, r.Quantity)
		}
		tw.AppendRow(table.Row{b.Name, requirementLines(b.Give), receive})
	}
	tw.Render()
}

func renderRequirers(res engine.Requirers) {
	fmt.Println(titleStyle.Render(res.Item.Name))
	tw := newTable()
	tw.AppendHeader(table.Row{"Kind", "Name", "Find (FIR)", "Collect"})
	for _, group := range [][]aggregate.Consumer{res.Quests, res.Modules, res.Barters} {
		for _, c := range group {
			tw.AppendRow(table.Row{c.Kind, c.Name, c.Need.Find, c.Need.Collect})
		}
	}
	if tw.Length() == 0 {
		fmt.Println(completeStyle.Render("nothing still needs this item"))
		return
	}
	tw.Render()
}

func renderCandidates(cands []domain.Candidate) {
	tw := newTable()
	tw.AppendHeader(table.Row{"#", "Kind", "ID", "Name"})
	for i, c := range cands {
		tw.AppendRow(table.Row{i + 1, c.Kind, c.ID, c.Name})
	}
	tw.Render()
}

func renderEvents(evts []domain.Event) {
	tw := newTable()
	tw.AppendHeader(table.Row{"ID", "Time", "Type", "Entity", "Payload"})
	for _, e := range evts {
		entity := e.EntityKind
		if e.EntityID != "" {
			entity += "/" + e.EntityID
		}
		tw.AppendRow(table.Row{e.ID, e.TS, e.Type, entity, e.Payload})
	}
	tw.Render()
}
