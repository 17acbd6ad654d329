// Package schema validates positional argument tuples against action signatures.
//
// A Signature lists the named, typed positions of an action exactly as the
// domain description declares them. Plans returned by a solver are checked
// against it once, before any handler destructures the arguments:
//
//	move := schema.Of(
//	    schema.Arg("v", schema.Symbol()),
//	    schema.Arg("q1", schema.Conf()),
//	    schema.Arg("t", schema.Trajectory()),
//	    schema.Arg("q2", schema.Conf()),
//	)
//
//	if err := schema.Validate(move, action.Args); err != nil {
//	    // arity or type mismatch
//	}
//
// Signatures can also be parsed from strings:
//
//	sig, err := schema.ParseSignature("?v:symbol ?s:symbol")
//
// Typed positions other than symbols also accept placeholder handles, which a
// solver synthesizes when it runs against debug streams.
package schema
