package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Cost is a plan cost or a cost bound. Infinity is allowed.
type Cost float64

// Infinity is the unbounded cost (accept the first plan found).
func Infinity() Cost {
	return Cost(math.Inf(1))
}

// IsInf reports whether the cost is unbounded.
func (c Cost) IsInf() bool {
	return math.IsInf(float64(c), 1)
}

func (c Cost) String() string {
	if c.IsInf() {
		return "inf"
	}
	return strconv.FormatFloat(float64(c), 'f', -1, 64)
}

// MarshalJSON encodes infinity as the string "inf", since JSON has no literal for it.
func (c Cost) MarshalJSON() ([]byte, error) {
	if c.IsInf() || math.IsNaN(float64(c)) {
		return json.Marshal(c.String())
	}
	return json.Marshal(float64(c))
}

// UnmarshalJSON accepts a number or one of "inf", "infinity".
func (c *Cost) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*c = Cost(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("cost must be a number or \"inf\": %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inf", "+inf", "infinity":
		*c = Infinity()
		return nil
	case "nan":
		*c = Cost(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid cost %q: %w", s, err)
	}
	*c = Cost(f)
	return nil
}

// SolverOptions is the configuration bundle handed opaquely to the solver.
// Nil fields take solver-defined defaults.
type SolverOptions struct {
	// Algorithm selects the solver strategy (e.g. "focused", "incremental").
	Algorithm         string   `json:"algorithm,omitempty" yaml:"algorithm,omitempty" toml:"algorithm,omitempty" mapstructure:"algorithm"`
	Planner           string   `json:"planner,omitempty" yaml:"planner,omitempty" toml:"planner,omitempty" mapstructure:"planner"`
	MaxPlannerTime    *float64 `json:"max_planner_time,omitempty" yaml:"max_planner_time,omitempty" toml:"max_planner_time,omitempty" mapstructure:"max_planner_time"`
	UnitCosts         *bool    `json:"unit_costs,omitempty" yaml:"unit_costs,omitempty" toml:"unit_costs,omitempty" mapstructure:"unit_costs"`
	UnitEfforts       *bool    `json:"unit_efforts,omitempty" yaml:"unit_efforts,omitempty" toml:"unit_efforts,omitempty" mapstructure:"unit_efforts"`
	EffortWeight      *float64 `json:"effort_weight,omitempty" yaml:"effort_weight,omitempty" toml:"effort_weight,omitempty" mapstructure:"effort_weight"`
	SuccessCost       *Cost    `json:"success_cost,omitempty" yaml:"success_cost,omitempty" toml:"success_cost,omitempty" mapstructure:"success_cost"`
	MaxTime           *float64 `json:"max_time,omitempty" yaml:"max_time,omitempty" toml:"max_time,omitempty" mapstructure:"max_time"`
	SearchSampleRatio *float64 `json:"search_sample_ratio,omitempty" yaml:"search_sample_ratio,omitempty" toml:"search_sample_ratio,omitempty" mapstructure:"search_sample_ratio"`
	Verbose           *bool    `json:"verbose,omitempty" yaml:"verbose,omitempty" toml:"verbose,omitempty" mapstructure:"verbose"`
}

// Merge returns o with every unset field taken from defaults.
func (o SolverOptions) Merge(defaults SolverOptions) SolverOptions {
	out := o
	if out.Algorithm == "" {
		out.Algorithm = defaults.Algorithm
	}
	if out.Planner == "" {
		out.Planner = defaults.Planner
	}
	if out.MaxPlannerTime == nil {
		out.MaxPlannerTime = defaults.MaxPlannerTime
	}
	if out.UnitCosts == nil {
		out.UnitCosts = defaults.UnitCosts
	}
	if out.UnitEfforts == nil {
		out.UnitEfforts = defaults.UnitEfforts
	}
	if out.EffortWeight == nil {
		out.EffortWeight = defaults.EffortWeight
	}
	if out.SuccessCost == nil {
		out.SuccessCost = defaults.SuccessCost
	}
	if out.MaxTime == nil {
		out.MaxTime = defaults.MaxTime
	}
	if out.SearchSampleRatio == nil {
		out.SearchSampleRatio = defaults.SearchSampleRatio
	}
	if out.Verbose == nil {
		out.Verbose = defaults.Verbose
	}
	return out
}

// Float returns a pointer to f, for optional option fields.
func Float(f float64) *float64 { return &f }

// Bool returns a pointer to b, for optional option fields.
func Bool(b bool) *bool { return &b }

// CostOf returns a pointer to c, for optional option fields.
func CostOf(c Cost) *Cost { return &c }

// DecodeOptions decodes a loosely typed option map (from YAML frontmatter, an
// HTTP body or an MCP call). Numbers may be given as strings and costs as "inf".
func DecodeOptions(raw map[string]any) (SolverOptions, error) {
	var opts SolverOptions
	if len(raw) == 0 {
		return opts, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       costHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &opts,
	})
	if err != nil {
		return opts, err
	}
	if err := dec.Decode(raw); err != nil {
		return opts, fmt.Errorf("%w: solver options: %w", ErrConfiguration, err)
	}
	return opts, nil
}

var costType = reflect.TypeOf(Cost(0))

func costHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != costType || from.Kind() != reflect.String {
		return data, nil
	}
	var c Cost
	if err := c.UnmarshalJSON([]byte(strconv.Quote(data.(string)))); err != nil {
		return nil, err
	}
	return c, nil
}
