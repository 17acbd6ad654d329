// Package compiler turns solver output documents into solutions.
package compiler

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/taskstream/internal/dto"
	"github.com/aretw0/taskstream/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format names a solution document encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	// FormatPDDL is the classical planner output: one "(action arg ...)" per
	// line and a "; cost = N" comment.
	FormatPDDL Format = "pddl"
)

// Parser converts raw solver output into a Solution.
type Parser struct {
	format Format
}

// NewParser creates a parser. FormatAuto sniffs the encoding from the content.
func NewParser(format Format) *Parser {
	return &Parser{format: format}
}

// Parse decodes a solution document. Accepted shapes are a solution object
// ({"plan": [...], "cost": ...}) or a bare action list. A plan must come with
// a cost; without one Parse fails with ErrInvalidSolution.
func (p *Parser) Parse(data []byte) (domain.Solution, error) {
	format := p.format
	if format == FormatAuto {
		format = Detect(data)
	}

	var (
		sol domain.Solution
		err error
	)
	switch format {
	case FormatJSON:
		sol, err = parseJSON(data)
	case FormatYAML:
		sol, err = parseYAML(data)
	case FormatPDDL:
		sol, err = parsePDDL(data)
	default:
		return domain.Solution{}, fmt.Errorf("%w: unknown solution format %q", domain.ErrInvalidSolution, format)
	}
	if err != nil {
		return domain.Solution{}, fmt.Errorf("%w: %w", domain.ErrInvalidSolution, err)
	}
	if err := sol.Validate(); err != nil {
		return domain.Solution{}, err
	}
	return sol, nil
}

// Detect guesses the encoding of a solution document.
func Detect(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatJSON
	}
	switch trimmed[0] {
	case '{', '[':
		return FormatJSON
	case '(', ';':
		return FormatPDDL
	}
	return FormatYAML
}

func parseJSON(data []byte) (domain.Solution, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return domain.Solution{}, fmt.Errorf("empty solution document")
	}
	if trimmed[0] == '[' {
		var actions []dto.ActionDTO
		if err := json.Unmarshal(trimmed, &actions); err != nil {
			return domain.Solution{}, fmt.Errorf("failed to parse plan: %w", err)
		}
		return dto.SolutionDocument{Plan: &actions}.ToSolution(), nil
	}
	var doc dto.SolutionDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return domain.Solution{}, fmt.Errorf("failed to parse solution: %w", err)
	}
	return doc.ToSolution(), nil
}

// parseYAML normalizes the document to JSON so both encodings share one decoder.
func parseYAML(data []byte) (domain.Solution, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.Solution{}, fmt.Errorf("failed to parse solution: %w", err)
	}
	if raw == nil {
		return domain.Solution{}, fmt.Errorf("empty solution document")
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return domain.Solution{}, fmt.Errorf("solution is not JSON compatible: %w", err)
	}
	return parseJSON(buf)
}

func parsePDDL(data []byte) (domain.Solution, error) {
	var (
		actions []domain.Action
		cost    *domain.Cost
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, ";") {
			if c, ok := parseCostComment(text); ok {
				cost = &c
			}
			continue
		}
		if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
			return domain.Solution{}, fmt.Errorf("line %d: expected (action args...), got %q", line, text)
		}
		fields := strings.Fields(strings.ToLower(text[1 : len(text)-1]))
		if len(fields) == 0 {
			return domain.Solution{}, fmt.Errorf("line %d: empty action", line)
		}
		args := make([]any, len(fields)-1)
		for i, f := range fields[1:] {
			args[i] = f
		}
		actions = append(actions, domain.NewAction(fields[0], args...))
	}
	if err := sc.Err(); err != nil {
		return domain.Solution{}, err
	}

	sol := domain.Solution{Plan: domain.NewPlan(actions...), Cost: domain.Cost(math.NaN())}
	if cost != nil {
		sol.Cost = *cost
	}
	return sol, nil
}

// parseCostComment reads "; cost = 12 (unit cost)".
func parseCostComment(text string) (domain.Cost, bool) {
	body := strings.TrimSpace(strings.TrimLeft(text, ";"))
	name, value, ok := strings.Cut(body, "=")
	if !ok || strings.TrimSpace(name) != "cost" {
		return 0, false
	}
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return domain.Cost(f), true
}
