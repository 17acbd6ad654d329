package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/translator"
)

// Overlay contains execution state to visualize on the graph.
type Overlay struct {
	// Executed is the number of leading actions already executed.
	Executed int
	// Failed is the index of the action that failed, or -1.
	Failed int
}

// GenerateMermaid produces a Mermaid flowchart of a plan. Actions form the
// main chain; when res is given, each action links to the commands it was
// translated into. Command shapes follow their kind:
// - follow: [[Subroutine]]
// - attach/detach: [/Parallelogram/]
// - register/scan: {{Hexagon}}
// - placeholder: ((Circle))
func GenerateMermaid(plan *domain.Plan, res *translator.Result, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    init((\"init\"))\n")

	if plan == nil {
		sb.WriteString("    none[\"no plan\"]\n")
		sb.WriteString("    init -.-> none\n")
		return sb.String()
	}

	prev := "init"
	for i, a := range plan.Actions {
		id := actionID(i)
		fmt.Fprintf(&sb, "    %s[\"%d: %s\"]\n", id, i, escape(a.String()))
		fmt.Fprintf(&sb, "    %s --> %s\n", prev, id)
		prev = id

		if res == nil || i >= len(res.Spans) {
			continue
		}
		span := res.Spans[i]
		for j, cmd := range res.Commands[span[0]:span[1]] {
			cid := fmt.Sprintf("%s_c%d", id, j)
			opener, closer := shape(cmd.CommandKind())
			fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", cid, opener, escape(cmd.String()), closer)
			fmt.Fprintf(&sb, "    %s -.-> %s\n", id, cid)
		}
	}
	sb.WriteString("    goal((\"goal\"))\n")
	fmt.Fprintf(&sb, "    %s --> goal\n", prev)

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on both light and dark themes.
		sb.WriteString("    classDef executed fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")
		for i := 0; i < overlay.Executed && i < plan.Len(); i++ {
			fmt.Fprintf(&sb, "    class %s executed;\n", actionID(i))
		}
		if overlay.Failed >= 0 && overlay.Failed < plan.Len() {
			fmt.Fprintf(&sb, "    class %s failed;\n", actionID(overlay.Failed))
		}
	}

	return sb.String()
}

func actionID(i int) string {
	return fmt.Sprintf("a%d", i)
}

func shape(kind string) (string, string) {
	switch kind {
	case domain.CommandFollow:
		return "[[", "]]"
	case domain.CommandAttach, domain.CommandDetach:
		return "[/", "/]"
	case domain.CommandRegister, domain.CommandScan:
		return "{{", "}}"
	case domain.CommandPlaceholder:
		return "((", "))"
	default:
		return "[", "]"
	}
}

// escape keeps labels inside Mermaid's quoted strings.
func escape(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
