package topology

import _ "embed"

//go:embed default.json
var defaultDocument []byte

// DefaultDocument returns the bundled reference document.
func DefaultDocument() []byte {
	return append([]byte(nil), defaultDocument...)
}

// Default returns the bundled reference topology, normalized.
func Default() *Topology {
	t, err := Parse(defaultDocument)
	if err != nil {
		panic("topology: bundled default document is invalid: " + err.Error())
	}
	return t
}
