package rovers

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Samplers computes the geometric facts the rovers streams certify. A
// simulator or a motion planner implements it; GridSamplers is a
// deterministic planar stand-in.
type Samplers interface {
	// CFreeRayConf reports whether rover at q leaves ray unobstructed.
	CFreeRayConf(ctx context.Context, ray domain.Ray, rover string, q domain.Conf) (bool, error)
	// Reachable reports whether rover can drive to q at all.
	Reachable(ctx context.Context, rover string, q domain.Conf) (bool, error)
	// ImageVisible yields (conf, ray) pairs from which rover sees objective.
	ImageVisible(ctx context.Context, rover, objective string) domain.Generator
	// ComVisible yields (conf, ray) pairs from which rover reaches lander.
	ComVisible(ctx context.Context, rover, lander string) domain.Generator
	// Above yields confs placing rover over rock.
	Above(ctx context.Context, rover, rock string) domain.Generator
	// Motion plans a trajectory from q1 to q2. ok is false when there is none.
	Motion(ctx context.Context, rover string, q1, q2 domain.Conf) (t domain.Trajectory, ok bool, err error)
}

// GridSamplers proposes configurations on rings around targets and connects
// them with straight-line trajectories. Handles are numbered in request order,
// so identical request sequences produce identical plans.
type GridSamplers struct {
	World World
	// Directions is the number of candidate headings per ring.
	Directions int
	// Steps is the number of waypoints of a trajectory. Teleport trajectories
	// only hold their endpoints.
	Steps    int
	Teleport bool
	// Clearance is how close a rover may get to a ray before blocking it.
	Clearance float64

	mu   sync.Mutex
	next int
}

// NewGridSamplers returns samplers over w with eight headings and ten waypoints.
func NewGridSamplers(w World) *GridSamplers {
	return &GridSamplers{World: w, Directions: 8, Steps: 10, Clearance: 0.3}
}

func (g *GridSamplers) id() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return strconv.Itoa(g.next)
}

func (g *GridSamplers) target(name string) (domain.Pose, error) {
	p, ok := g.World.Positions[name]
	if !ok {
		return domain.Pose{}, fmt.Errorf("%w: no position for %s", domain.ErrConfiguration, name)
	}
	return p, nil
}

func (g *GridSamplers) within(x, y float64) bool {
	lo, hi := g.World.Limits[0], g.World.Limits[1]
	if lo == hi {
		return true
	}
	return x >= lo[0] && x <= hi[0] && y >= lo[1] && y <= hi[1]
}

// ring yields base confs at radius around p, facing p, with a ray to p.
func (g *GridSamplers) ring(rover, target string, radius float64, withRay bool) domain.Generator {
	directions := g.Directions
	if directions <= 0 {
		directions = 8
	}
	k := 0
	return domain.GeneratorFromFunc(func(ctx context.Context) ([]domain.Value, bool, error) {
		p, err := g.target(target)
		if err != nil {
			return nil, false, err
		}
		for ; k < directions; k++ {
			if err := ctx.Err(); err != nil {
				return nil, false, err
			}
			angle := 2 * math.Pi * float64(k) / float64(directions)
			x, y := p.X+radius*math.Cos(angle), p.Y+radius*math.Sin(angle)
			if !g.within(x, y) {
				continue
			}
			k++
			heading := math.Atan2(p.Y-y, p.X-x)
			q := domain.Conf{Body: rover, ID: g.id(), Positions: []float64{round(x), round(y), round(heading)}}
			if !withRay {
				return []domain.Value{q}, true, nil
			}
			ray := domain.Ray{ID: g.id(), Body: rover, Target: target, Start: domain.P(q.Positions[0], q.Positions[1], 0), End: p}
			return []domain.Value{q, ray}, true, nil
		}
		return nil, false, nil
	})
}

func (g *GridSamplers) ImageVisible(ctx context.Context, rover, objective string) domain.Generator {
	return g.ring(rover, objective, VisRange/2, true)
}

func (g *GridSamplers) ComVisible(ctx context.Context, rover, lander string) domain.Generator {
	return g.ring(rover, lander, VisRange*3/4, true)
}

func (g *GridSamplers) Above(ctx context.Context, rover, rock string) domain.Generator {
	return g.ring(rover, rock, 0.25, false)
}

func (g *GridSamplers) Reachable(ctx context.Context, rover string, q domain.Conf) (bool, error) {
	if q.Body != rover || len(q.Positions) < 2 {
		return false, nil
	}
	return g.within(q.Positions[0], q.Positions[1]), nil
}

func (g *GridSamplers) CFreeRayConf(ctx context.Context, ray domain.Ray, rover string, q domain.Conf) (bool, error) {
	if ray.Body == rover || len(q.Positions) < 2 {
		return true, nil
	}
	d := segmentDistance(q.Positions[0], q.Positions[1], ray.Start, ray.End)
	return d > g.Clearance, nil
}

func (g *GridSamplers) Motion(ctx context.Context, rover string, q1, q2 domain.Conf) (domain.Trajectory, bool, error) {
	if q1.Body != rover || q2.Body != rover {
		return domain.Trajectory{}, false, fmt.Errorf("%w: motion of %s between confs of %s and %s",
			domain.ErrArgumentShape, rover, q1.Body, q2.Body)
	}
	if len(q1.Positions) != len(q2.Positions) {
		return domain.Trajectory{}, false, nil
	}
	if ok, _ := g.Reachable(ctx, rover, q2); !ok {
		return domain.Trajectory{}, false, nil
	}

	steps := g.Steps
	if g.Teleport || steps < 2 {
		steps = 2
	}
	path := make([]domain.Conf, steps)
	for i := range path {
		s := float64(i) / float64(steps-1)
		positions := make([]float64, len(q1.Positions))
		for j := range positions {
			positions[j] = round(q1.Positions[j] + s*(q2.Positions[j]-q1.Positions[j]))
		}
		path[i] = domain.Conf{Body: rover, ID: fmt.Sprintf("%s.%d", q2.ID, i), Positions: positions}
	}
	path[0], path[steps-1] = q1, q2
	return domain.Trajectory{ID: g.id(), Body: rover, Path: path}, true, nil
}

func segmentDistance(x, y float64, a, b domain.Pose) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(x-a.X, y-a.Y)
	}
	t := ((x-a.X)*dx + (y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(x-(a.X+t*dx), y-(a.Y+t*dy))
}

func round(f float64) float64 {
	return math.Round(f*1000) / 1000
}
