package schema

import (
	"log/slog"
	"slices"
	"sync"
)

// The options registry answers "which choices does select type X offer?"
// for hosts that look options up by type name instead of walking descriptors.
// Describe populates it as a side effect; manual registration is for types
// described outside this package.
var (
	optionsMu     sync.RWMutex
	optionsByType = make(map[string][]string)
)

// RegisterOptions records the choice names for a select type. Re-registering
// a name replaces the previous list.
func RegisterOptions(typeName string, options []string) {
	if typeName == "" || len(options) == 0 {
		return
	}
	slog.Debug("Registering select options.", "type", typeName, "count", len(options))
	optionsMu.Lock()
	defer optionsMu.Unlock()
	optionsByType[typeName] = slices.Clone(options)
}

// Options returns the recorded choice names for a select type.
func Options(typeName string) ([]string, bool) {
	optionsMu.RLock()
	defer optionsMu.RUnlock()
	options, ok := optionsByType[typeName]
	if !ok {
		return nil, false
	}
	return slices.Clone(options), true
}

// ResetOptions clears the options registry. Test isolation only.
func ResetOptions() {
	optionsMu.Lock()
	defer optionsMu.Unlock()
	optionsByType = make(map[string][]string)
}
