/*
Package runner implements the interview service and the console loop.

Interviewer is the service every frontend (HTTP, MCP, console) goes through:
it serializes each step on the session lock, persists the session and keeps
the patient record and its narrative in sync. Console drives one interview
over a pluggable IOHandler.

# Key Components

  - Interviewer: Begin, Submit, Edit, Current, Summary and Abandon.
  - Console: ask/read/submit loop with OS signal handling.
  - IOHandler: TextHandler for terminals, JSONHandler for JSON-Lines hosts.

# Usage

	iv := runner.NewInterviewer(catalog.Default(), session.NewManager(memory.NewStore()))
	c := runner.NewConsole(iv, runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)))

	id, summary, err := c.Run(ctx, record, "Chest Pain")
*/
package runner
