package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"worktick/internal/core/model"
)

const globalKey = "global"

// Resolve derives the tracked workspace identity from a directory path. An
// empty path resolves to the current working directory. The cleaned absolute
// root doubles as the persistence key, so two paths naming the same directory
// share one record.
func Resolve(dir string) (model.Workspace, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return model.Workspace{}, fmt.Errorf("resolve working directory: %w", err)
		}
		dir = cwd
	}

	absolute, err := filepath.Abs(dir)
	if err != nil {
		return model.Workspace{}, fmt.Errorf("resolve workspace path: %w", err)
	}
	root := filepath.Clean(absolute)

	info, err := os.Stat(root)
	if err != nil {
		return model.Workspace{}, fmt.Errorf("stat workspace root: %w", err)
	}
	if !info.IsDir() {
		return model.Workspace{}, fmt.Errorf("workspace root %s is not a directory", root)
	}

	return model.Workspace{
		Key:   root,
		Label: filepath.Base(root),
		Root:  root,
	}, nil
}

// Global is the sentinel identity used when no workspace directory applies.
func Global() model.Workspace {
	return model.Workspace{Key: globalKey, Label: "global"}
}
