/*
Package scribe is a clinical history-taking engine. It walks a patient
through a complaint-specific question graph and turns the answers into a
structured narrative note for the clinician.

# Concept

Each chief complaint (chest pain, headache, abdominal pain...) is a rooted
graph of questions. The engine holds no state of its own: a Session carries
the cursor, the answers and the visit history, and every step returns the
updated Session. Adapters (console, HTTP, MCP) own persistence through a
session.Manager, which serializes concurrent answers to the same session.

# Key Features

  - Typed answers: yes/no, multiple choice, free text, numbers and dates are
    normalized before they are stored.
  - Red flags: questions can carry a predicate and a clinical note that is
    surfaced in the summary as a warning.
  - Narrative: the generator renders demographics, the history of present
    illness, an assessment and a plan from the answers.

# Usage

	eng, err := scribe.New(ctx)
	if err != nil {
		log.Fatal(err)
	}

	graph, _, err := eng.LoadGraphOrDefault(ctx, "Chest Pain")
	if err != nil {
		log.Fatal(err)
	}

	s := domain.NewSession("visit-1", domain.PatientRecord{FirstName: "John", LastName: "Doe", Age: 45, Gender: "Male"})
	s, err = eng.Start(ctx, s, graph)
	for !s.Done() {
		s, err = eng.Answer(ctx, s, graph, readAnswer())
		...
	}
	fmt.Println(eng.Generate(&s.Record))
*/
package scribe
