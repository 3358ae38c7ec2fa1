package driven

import "context"

// StructureFinder discovers structure files under input paths.
type StructureFinder interface {
	// Find walks files and directories (recursively) and maps each derived
	// structure id to its file path. When two files share an id, the one
	// found last wins.
	Find(ctx context.Context, inputPaths []string) (map[string]string, error)
}
