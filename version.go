package scribe

import _ "embed"

// Version is the released version of the module, read from VERSION.
//
//go:embed VERSION
var Version string
