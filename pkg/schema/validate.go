package schema

import (
	"fmt"
	"strings"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Param is one named, typed position of a signature.
type Param struct {
	Name string
	Type Type
}

// Arg declares a signature parameter.
func Arg(name string, t Type) Param {
	return Param{Name: name, Type: t}
}

// Signature is the ordered parameter list of an action, matching its
// parameter list in the domain description.
type Signature []Param

// Of builds a signature.
func Of(params ...Param) Signature {
	return Signature(params)
}

// Arity returns the number of parameters.
func (s Signature) Arity() int {
	return len(s)
}

func (s Signature) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = p.Name + ":" + p.Type.Name()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Validate checks that args match the signature exactly: same arity and
// every position of the declared type. It returns an *AggregateError.
func Validate(sig Signature, args []domain.Value) error {
	if len(args) != len(sig) {
		return &AggregateError{Errors: []error{&ValidationError{
			Position: -1,
			Key:      "arity",
			Reason:   fmt.Sprintf("expected %d arguments %s, got %d", len(sig), sig, len(args)),
		}}}
	}

	var errs []error
	for i, p := range sig {
		if err := p.Type.Validate(args[i]); err != nil {
			errs = append(errs, &ValidationError{
				Position: i,
				Key:      p.Name,
				Reason:   err.Error(),
				Value:    args[i],
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
