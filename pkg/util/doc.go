// Package util holds small stateless helpers shared by the topology engine:
// deep cloning of decoded documents, a trailing-edge debouncer and the
// string case helpers used for labels and file names.
package util
