// Package description scans PDDL domain and stream descriptions for the names
// the pipeline binds to: streams and actions. It does not interpret anything
// else in the documents.
package description

import (
	"regexp"
	"sort"
	"strings"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Declaration is a named block of a description with its parameter variables.
type Declaration struct {
	Name string `json:"name"`
	// Parameters are the action parameters, or the stream inputs.
	Parameters []string `json:"parameters,omitempty"`
	// Outputs are the stream outputs. Empty for actions.
	Outputs []string `json:"outputs,omitempty"`
}

var (
	comment    = regexp.MustCompile(`;[^\n]*`)
	blockStart = regexp.MustCompile(`\(\s*:(action|stream|function|derived|predicates|rule)\b\s*([^\s()]*)`)
	parameters = regexp.MustCompile(`:parameters\s*\(([^)]*)\)`)
	inputs     = regexp.MustCompile(`:inputs\s*\(([^)]*)\)`)
	outputs    = regexp.MustCompile(`:outputs\s*\(([^)]*)\)`)
)

// Actions returns the actions declared in a domain description, in document order.
func Actions(d domain.Description) []Declaration {
	return scan(d.Text, "action", parameters)
}

// Streams returns the streams declared in a stream description, in document order.
func Streams(d domain.Description) []Declaration {
	return scan(d.Text, "stream", inputs)
}

// Names returns the declaration names, sorted.
func Names(decls []Declaration) []string {
	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}
	sort.Strings(names)
	return names
}

// Find returns the declaration with the given name.
func Find(decls []Declaration, name string) (Declaration, bool) {
	for _, d := range decls {
		if d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}

func scan(text, kind string, params *regexp.Regexp) []Declaration {
	text = comment.ReplaceAllString(text, "")
	starts := blockStart.FindAllStringSubmatchIndex(text, -1)

	var decls []Declaration
	for i, m := range starts {
		if text[m[2]:m[3]] != kind {
			continue
		}
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		body := text[m[1]:end]
		decl := Declaration{Name: strings.ToLower(text[m[4]:m[5]])}
		if sub := params.FindStringSubmatch(body); sub != nil {
			decl.Parameters = variables(sub[1])
		}
		if kind == "stream" {
			if sub := outputs.FindStringSubmatch(body); sub != nil {
				decl.Outputs = variables(sub[1])
			}
		}
		decls = append(decls, decl)
	}
	return decls
}

// variables keeps the ?-prefixed tokens of a typed or untyped parameter list.
func variables(list string) []string {
	var vars []string
	for _, tok := range strings.Fields(list) {
		if strings.HasPrefix(tok, "?") {
			vars = append(vars, tok)
		}
	}
	return vars
}
