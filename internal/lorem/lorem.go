// Package lorem generates deterministic placeholder text for argument
// defaults. The word pool is fixed, so the same word count always yields
// the same phrase.
package lorem

import "strings"

// DefaultWordCount is used when a placeholder is requested without an
// explicit word count.
const DefaultWordCount = 8

var words = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit",
	"sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore", "et",
	"dolore", "magna", "aliqua", "enim", "ad", "minim", "veniam", "quis",
	"nostrud", "exercitation", "ullamco", "laboris", "nisi", "aliquip", "ex", "ea",
	"commodo", "consequat", "duis", "aute", "irure", "in", "reprehenderit", "voluptate",
	"velit", "esse", "cillum", "fugiat", "nulla", "pariatur", "excepteur", "sint",
	"occaecat", "cupidatat", "non", "proident", "sunt", "culpa", "qui", "officia",
	"deserunt", "mollit", "anim", "id", "est", "laborum", "pellentesque", "habitant",
	"morbi", "tristique", "senectus", "netus", "et", "malesuada", "fames", "ac",
	"turpis", "egestas", "vestibulum", "tortor", "quam", "feugiat", "vitae", "ultricies",
	"legimus", "typi", "qui", "nusquam", "vici", "sunt", "signa", "consuetudium",
}

// Words returns n placeholder words joined by single spaces, cycling through
// the pool when n exceeds it. Zero or negative counts yield an empty string.
func Words(n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = words[i%len(words)]
	}
	return strings.Join(out, " ")
}
