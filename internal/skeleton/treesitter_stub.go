//go:build !cgo

package skeleton

// newTreeSitterStrategies returns no strategies when cgo is unavailable so
// the provider resolves every language to the heuristic fallback on platforms
// that cannot build the tree-sitter bindings.
func newTreeSitterStrategies() map[string]Strategy {
	return nil
}
