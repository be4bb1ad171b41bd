/*
Package dsl provides a Go DSL for programmatically constructing complaint graphs.

It allows clinical content to be defined with a type-safe, fluent builder
instead of external YAML files. The bundled catalog is written with it.

Example usage:

	g := dsl.New("sore-throat", "Sore Throat")

	g.Add("onset").
		Question("When did the sore throat start?").
		Date().
		Go("fever")

	g.Add("fever").
		Question("Do you have a fever?").
		YesNo().
		Branch("Yes", "red_flag_drooling").
		Go("duration")

	g.Add("red_flag_drooling").
		Question("Are you drooling or unable to swallow saliva?").
		YesNo().
		RedFlag("Drooling or inability to swallow - assess airway urgently.").
		Go("duration")

	g.Add("duration").
		Question("How long have you had it?").
		Text().
		Terminal()

	graph, err := g.Build()
*/
package dsl
