// Package sourcemap records where expanded functions came from.
package sourcemap

import "fmt"

// Entry maps the lines of one expanded function in the output back to the
// annotated declaration in the original file.
type Entry struct {
	ExpandedStart int    // First line in expanded output (1-based, inclusive)
	ExpandedEnd   int    // Last line in expanded output (1-based, inclusive)
	OriginalFile  string // Original source file path
	OriginalLine  int    // Line of the func keyword in the original file
	Function      string // Expanded function name
	Retries       int    // Attempt budget of the expansion
}

// Description renders the entry for logs, e.g. "fetchData (retries=3) from main.go:12".
func (e Entry) Description() string {
	return fmt.Sprintf("%s (retries=%d) from %s:%d", e.Function, e.Retries, e.OriginalFile, e.OriginalLine)
}

// SourceMap tracks how lines in expanded output map back to original sources.
// Used for error attribution when the compiler reports a line inside
// generated retry scaffolding.
type SourceMap struct {
	entries []Entry
}

// New creates a new empty SourceMap.
func New() *SourceMap {
	return &SourceMap{
		entries: make([]Entry, 0),
	}
}

// Add records an expanded function. Lines are 1-based and inclusive on both ends.
func (sm *SourceMap) Add(entry Entry) {
	sm.entries = append(sm.entries, entry)
}

// Resolve finds the expansion covering an output line.
func (sm *SourceMap) Resolve(expandedLine int) (Entry, bool) {
	// Linear search: a file rarely holds more than a handful of expansions.
	for _, entry := range sm.entries {
		if expandedLine >= entry.ExpandedStart && expandedLine <= entry.ExpandedEnd {
			return entry, true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of all entries.
func (sm *SourceMap) Entries() []Entry {
	result := make([]Entry, len(sm.entries))
	copy(result, sm.entries)
	return result
}

// Len returns the number of entries in the source map.
func (sm *SourceMap) Len() int {
	return len(sm.entries)
}
