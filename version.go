package taproot

import _ "embed"

// Version exposes the version of the library.
//
//go:embed VERSION
var Version string
