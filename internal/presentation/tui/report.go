package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/taskstream/internal/validator"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/translator"
)

// ProblemReport summarizes an assembled problem as markdown.
func ProblemReport(p *domain.Problem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Problem `%s`\n\n", p.Name)
	fmt.Fprintf(&sb, "- stream mode: **%s**\n", p.Streams.Mode())
	if names := p.Streams.Names(); len(names) > 0 {
		fmt.Fprintf(&sb, "- streams: %s\n", codeList(names))
	}
	fmt.Fprintf(&sb, "- initial facts: %d\n\n", len(p.Init))

	sb.WriteString("## Initial state\n\n")
	for _, f := range p.Init {
		fmt.Fprintf(&sb, "- `%s`\n", f)
	}
	sb.WriteString("\n## Goal\n\n")
	for _, c := range domain.Conjuncts(p.Goal) {
		fmt.Fprintf(&sb, "- `%s`\n", c)
	}
	return sb.String()
}

// PlanReport lists a solution and, when res is given, the commands of each action.
func PlanReport(sol domain.Solution, res *translator.Result) string {
	var sb strings.Builder
	if !sol.Solved() {
		sb.WriteString("# No plan found\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "# Plan (%d actions, cost %s)\n\n", sol.Plan.Len(), sol.Cost)
	sb.WriteString("| # | Action | Commands |\n|---|---|---|\n")
	for i, a := range sol.Plan.Actions {
		cmds := "-"
		if res != nil && i < len(res.Spans) {
			span := res.Spans[i]
			parts := make([]string, 0, span[1]-span[0])
			for _, c := range res.Commands[span[0]:span[1]] {
				parts = append(parts, "`"+c.String()+"`")
			}
			if len(parts) > 0 {
				cmds = strings.Join(parts, "<br>")
			}
		}
		fmt.Fprintf(&sb, "| %d | `%s` | %s |\n", i, a, cmds)
	}
	if res != nil && !res.State.Empty() {
		sb.WriteString("\n**Still holding:**\n\n")
		for _, agent := range res.State.Agents() {
			obj, _ := res.State.Holding(agent)
			fmt.Fprintf(&sb, "- %s holds %s\n", agent, obj)
		}
	}
	return sb.String()
}

// ValidationReport renders a scenario validation report.
func ValidationReport(r *validator.Report) string {
	var sb strings.Builder
	status := "✅ valid"
	if len(r.Problems) > 0 {
		status = fmt.Sprintf("❌ %d problems", len(r.Problems))
	}
	fmt.Fprintf(&sb, "# Scenario `%s`: %s\n\n", r.Scenario, status)
	fmt.Fprintf(&sb, "- actions: %s\n", codeList(r.Actions))
	fmt.Fprintf(&sb, "- streams: %s\n", codeList(r.Streams))
	for _, p := range r.Problems {
		fmt.Fprintf(&sb, "\n> %s\n", p)
	}
	for _, n := range r.Notes {
		fmt.Fprintf(&sb, "\n_%s_\n", n)
	}
	return sb.String()
}

func codeList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return "`" + strings.Join(names, "`, `") + "`"
}
