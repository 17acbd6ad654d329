package rovers

import (
	"fmt"
	"sort"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Rover is a rover body and its base configuration at the start of the run.
type Rover struct {
	Name string      `json:"name" yaml:"name"`
	Conf domain.Conf `json:"conf" yaml:"conf"`
}

// Rock is a sampleable body on the ground. Type is "stone" or "soil".
type Rock struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// World describes a rovers problem: the bodies and where they are.
type World struct {
	Name       string   `json:"name" yaml:"name"`
	Rovers     []Rover  `json:"rovers" yaml:"rovers"`
	Landers    []string `json:"landers" yaml:"landers"`
	Stores     []string `json:"stores" yaml:"stores"`
	Objectives []string `json:"objectives" yaml:"objectives"`
	Rocks      []Rock   `json:"rocks" yaml:"rocks"`
	// Positions locates the fixed bodies (landers, objectives, rocks) in the plane.
	Positions map[string]domain.Pose `json:"positions" yaml:"positions"`
	// Limits bounds the base configurations samplers may propose, as
	// [min x, min y] and [max x, max y].
	Limits [2][2]float64 `json:"limits" yaml:"limits"`
}

// Rovers1 is the single rover world: one lander, one store, two objectives,
// two stones and two soils.
func Rovers1() World {
	return World{
		Name: "rovers1",
		Rovers: []Rover{
			{Name: "v1", Conf: domain.Conf{Body: "v1", ID: "0", Positions: []float64{0, -1.5, 0}}},
		},
		Landers:    []string{"lander"},
		Stores:     []string{"store"},
		Objectives: []string{"objective1", "objective2"},
		Rocks: []Rock{
			{Name: "rock1", Type: TypeStone},
			{Name: "rock2", Type: TypeStone},
			{Name: "soil1", Type: TypeSoil},
			{Name: "soil2", Type: TypeSoil},
		},
		Positions: map[string]domain.Pose{
			"lander":     domain.P(-2, -2, 0),
			"objective1": domain.P(1.5, 1.5, 0.5),
			"objective2": domain.P(-1.5, 1.5, 0.5),
			"rock1":      domain.P(1, 0, 0),
			"rock2":      domain.P(-1, -0.5, 0),
			"soil1":      domain.P(0.5, 1, 0),
			"soil2":      domain.P(2, -1, 0),
		},
		Limits: [2][2]float64{{-2.5, -2.5}, {2.5, 2.5}},
	}
}

// Rovers2 adds a second rover sharing the store and the lander.
func Rovers2() World {
	w := Rovers1()
	w.Name = "rovers2"
	w.Rovers = append(w.Rovers, Rover{
		Name: "v2",
		Conf: domain.Conf{Body: "v2", ID: "0", Positions: []float64{0, 1.5, 0}},
	})
	return w
}

// Worlds returns the built-in worlds by name.
func Worlds() map[string]World {
	return map[string]World{
		"rovers1": Rovers1(),
		"rovers2": Rovers2(),
	}
}

// Validate checks that every fixed body has a position and every rover a
// configuration of its own body.
func (w World) Validate() error {
	if len(w.Rovers) == 0 {
		return fmt.Errorf("%w: world %q has no rovers", domain.ErrConfiguration, w.Name)
	}
	for _, r := range w.Rovers {
		if r.Conf.Body != r.Name {
			return fmt.Errorf("%w: rover %s starts at a configuration of %q", domain.ErrConfiguration, r.Name, r.Conf.Body)
		}
	}
	for _, name := range w.fixed() {
		if _, ok := w.Positions[name]; !ok {
			return fmt.Errorf("%w: body %s has no position", domain.ErrConfiguration, name)
		}
	}
	return nil
}

func (w World) fixed() []string {
	names := append([]string{}, w.Landers...)
	names = append(names, w.Objectives...)
	for _, r := range w.Rocks {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names
}

// Entities turns the world into classifiable entities. Rovers carry their
// initial configuration as their pose.
func (w World) Entities() []domain.Entity {
	var out []domain.Entity
	for _, r := range w.Rovers {
		out = append(out, domain.Entity{Name: r.Name, Keywords: []string{KindRover}, Pose: r.Conf})
	}
	add := func(kind string, names []string) {
		for _, name := range names {
			out = append(out, domain.Entity{Name: name, Keywords: []string{kind}, Pose: w.pose(name)})
		}
	}
	add(KindLander, w.Landers)
	add(KindStore, w.Stores)
	add(KindObjective, w.Objectives)
	for _, r := range w.Rocks {
		out = append(out, domain.Entity{
			Name:       r.Name,
			Keywords:   []string{KindRock},
			Pose:       w.pose(r.Name),
			Attributes: map[string]any{"type": r.Type},
		})
	}
	return out
}

func (w World) pose(name string) domain.Value {
	if p, ok := w.Positions[name]; ok {
		return p
	}
	return nil
}
