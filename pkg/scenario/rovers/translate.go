package rovers

import (
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/schema"
	"github.com/aretw0/taskstream/pkg/translator"
)

// Execution constants.
const (
	// BaseLink is the rover link samples are attached to.
	BaseLink = "base_link"
	// CameraFrame is the link the camera is mounted on.
	CameraFrame = "eyes"
	// VisRange is the maximum depth at which objectives can be registered.
	VisRange = 2.0
)

type sampleStep struct {
	Rover string
	Rock  string
}

type dropStep struct {
	Rover string
}

type sensorStep struct {
	Rover     string
	Objective string
}

// Handlers returns the translation of every rovers action.
func Handlers() []translator.Handler {
	rover := schema.Arg("v", schema.Symbol())
	conf := schema.Arg("q", schema.Conf())
	ray := schema.Arg("y", schema.Ray())
	lander := schema.Arg("l", schema.Symbol())
	objective := schema.Arg("o", schema.Symbol())
	camera := schema.Arg("c", schema.Symbol())
	mode := schema.Arg("m", schema.Symbol())
	rock := schema.Arg("r", schema.Symbol())
	store := schema.Arg("s", schema.Symbol())

	return []translator.Handler{
		translator.PassThrough("move", schema.Of(
			rover, schema.Arg("q1", schema.Conf()), schema.Arg("t", schema.Trajectory()), schema.Arg("q2", schema.Conf()),
		), 2),
		translator.PassThrough("send_image", schema.Of(rover, conf, ray, lander, objective, mode), 2),
		translator.PassThrough("send_analysis", schema.Of(rover, conf, ray, lander, rock), 2),

		translator.Action("sample_rock", schema.Of(rover, conf, rock, store),
			func(args domain.Args) (sampleStep, error) {
				return sampleStep{Rover: translator.SymbolAt(args, 0), Rock: translator.SymbolAt(args, 2)}, nil
			},
			func(state domain.TranslationState, s sampleStep) ([]domain.Command, domain.TranslationState, error) {
				next := state.Attach(s.Rover, s.Rock)
				return []domain.Command{domain.Attach{Agent: s.Rover, Link: BaseLink, Body: s.Rock}}, next, nil
			},
		),

		translator.Action("drop_rock", schema.Of(rover, store),
			func(args domain.Args) (dropStep, error) {
				return dropStep{Rover: translator.SymbolAt(args, 0)}, nil
			},
			func(state domain.TranslationState, s dropStep) ([]domain.Command, domain.TranslationState, error) {
				rock, next, err := state.Detach(s.Rover)
				if err != nil {
					return nil, state, err
				}
				return []domain.Command{domain.Detach{Agent: s.Rover, Link: BaseLink, Body: rock}}, next, nil
			},
		),

		translator.Action("calibrate", schema.Of(rover, conf, ray, objective, camera),
			func(args domain.Args) (sensorStep, error) {
				return sensorStep{Rover: translator.SymbolAt(args, 0), Objective: translator.SymbolAt(args, 3)}, nil
			},
			func(state domain.TranslationState, s sensorStep) ([]domain.Command, domain.TranslationState, error) {
				return []domain.Command{domain.Register{
					Agent: s.Rover, Target: s.Objective, CameraFrame: CameraFrame, MaxDepth: VisRange,
				}}, state, nil
			},
		),

		translator.Action("take_image", schema.Of(rover, conf, ray, objective, camera, mode),
			func(args domain.Args) (sensorStep, error) {
				return sensorStep{Rover: translator.SymbolAt(args, 0), Objective: translator.SymbolAt(args, 3)}, nil
			},
			func(state domain.TranslationState, s sensorStep) ([]domain.Command, domain.TranslationState, error) {
				return []domain.Command{domain.Scan{Agent: s.Rover, Target: s.Objective, CameraFrame: CameraFrame}}, state, nil
			},
		),
	}
}

// NewTranslator returns a translator loaded with Handlers.
func NewTranslator(opts ...translator.Option) *translator.Translator {
	opts = append(opts, translator.WithHandlers(Handlers()...))
	return translator.New(opts...)
}
