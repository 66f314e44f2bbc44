package journal

import "fmt"

// Open returns the store for the configured backend: "jsonl" or "sqlite".
func Open(backend, path string) (Store, error) {
	switch backend {
	case "jsonl":
		return NewJSONLStore(path)
	case "sqlite":
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown journal backend %s", backend)
	}
}
