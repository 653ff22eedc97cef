// Package registry provides the central "glue" between story names and story
// behavior.
//
// The Registry stores, for every registered story, the two callables the
// viewer needs: a metadata accessor producing the argument descriptors, and a
// render function turning a dynamic argument bag into a renderable node.
// Entries are inserted once at startup and read for the rest of the process's
// life; there is no unregister operation. Reset exists solely so tests can
// isolate themselves from each other.
package registry
