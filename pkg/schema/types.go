package schema

import (
	"fmt"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Type defines the contract for positional argument validation.
type Type interface {
	// Name returns the type name used in signatures (e.g., "symbol", "conf").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value domain.Value) error
}

// --- Built-in Type Implementations ---

// SymbolType accepts symbolic object names.
type SymbolType struct{}

func (t *SymbolType) Name() string { return domain.TypeSymbol }

func (t *SymbolType) Validate(value domain.Value) error {
	if _, ok := value.(domain.Symbol); !ok {
		return fmt.Errorf("expected symbol, got %T", value)
	}
	return nil
}

// handleType accepts one concrete value type, or a placeholder Handle
// synthesized by a solver running against debug streams.
type handleType[T domain.Value] struct {
	name string
}

func (t *handleType[T]) Name() string { return t.name }

func (t *handleType[T]) Validate(value domain.Value) error {
	switch value.(type) {
	case T, domain.Handle:
		return nil
	case nil:
		return fmt.Errorf("expected %s, got nothing", t.name)
	default:
		return fmt.Errorf("expected %s, got %T", t.name, value)
	}
}

// AnyType accepts every value.
type AnyType struct{}

func (t *AnyType) Name() string { return "any" }

func (t *AnyType) Validate(value domain.Value) error {
	if value == nil {
		return fmt.Errorf("expected a value, got nothing")
	}
	return nil
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(domain.Value) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value domain.Value) error {
	return t.validate(value)
}

// --- Factory Functions ---

// Symbol creates a symbolic name validator.
func Symbol() Type { return &SymbolType{} }

// Pose creates a pose validator.
func Pose() Type { return &handleType[domain.Pose]{name: domain.TypePose} }

// Conf creates a configuration validator.
func Conf() Type { return &handleType[domain.Conf]{name: domain.TypeConf} }

// Trajectory creates a trajectory validator.
func Trajectory() Type { return &handleType[domain.Trajectory]{name: domain.TypeTrajectory} }

// Ray creates a ray validator.
func Ray() Type { return &handleType[domain.Ray]{name: domain.TypeRay} }

// Handle creates a validator for opaque handles.
func Handle() Type { return &handleType[domain.Handle]{name: domain.TypeHandle} }

// Any creates a validator that accepts any value.
func Any() Type { return &AnyType{} }

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(domain.Value) error) Type {
	return &CustomType{name: name, validate: validate}
}

// ParseType converts a type name to a Type.
func ParseType(typeStr string) (Type, error) {
	switch typeStr {
	case domain.TypeSymbol, "object":
		return Symbol(), nil
	case domain.TypePose:
		return Pose(), nil
	case domain.TypeConf:
		return Conf(), nil
	case domain.TypeTrajectory:
		return Trajectory(), nil
	case domain.TypeRay:
		return Ray(), nil
	case domain.TypeHandle:
		return Handle(), nil
	case "any", "":
		return Any(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}
