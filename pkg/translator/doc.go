/*
Package translator converts solver plans into executable command sequences.

Each action name is bound to a Handler with a positional signature and a typed
step record. A plan is parsed into steps once, before anything is emitted, so an
unknown action or an argument mismatch aborts translation without partial
output. The parsed steps are then folded in order over a TranslationState that
always starts empty:

	t := translator.New(translator.WithLogger(logger))
	t.Register(translator.PassThrough("move", moveSig, 2))

	res, err := t.Translate(ctx, solution.Plan)
	if res == nil && err == nil {
	    // no plan was found
	}
*/
package translator
