/*
Package dsl provides a Go DSL for programmatically constructing planning problems.

It allows scenarios to declare initial facts and goal formulas with a fluent
builder instead of assembling fact tuples and formula trees by hand.

Example usage:

	b := dsl.New("rovers").
		Domain(domainPDDL).
		StreamDescription(streamPDDL).
		Streams(streamMap).
		Init("Rover", "v1").
		Init("Camera", "RGBD")

	b.Goal().
		Exists("?rock").
		Fact("Type", "?rock", "stone").
		Fact("ReceivedAnalysis", "?rock").
		End().
		Fact("Free", "v1", "store")

	problem, err := b.Build()
*/
package dsl
