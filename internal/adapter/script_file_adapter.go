// Package adapter contains infrastructure adapters for the hotsplit CLI.
package adapter

import (
	"context"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
	"hotsplit.dev/pkg/hotsplit/internal/script"
)

// ScriptFileAdapter encapsulates script parsing so the domain layer can focus
// on split rules while delegating frontend details to an infrastructure
// component.
type ScriptFileAdapter interface {
	// Parse builds a syntax tree for the provided script. Errors carry a
	// caret-annotated source snippet.
	Parse(ctx context.Context, path m.Path, src string) (*script.Program, error)
}

// LocalScriptFileAdapter provides a concrete ScriptFileAdapter backed by the
// built-in parser.
type LocalScriptFileAdapter struct{}

// NewLocalScriptFileAdapter constructs a LocalScriptFileAdapter.
func NewLocalScriptFileAdapter() *LocalScriptFileAdapter {
	return &LocalScriptFileAdapter{}
}

// Parse builds a syntax tree for the provided path/source pair.
func (a *LocalScriptFileAdapter) Parse(ctx context.Context, path m.Path, src string) (*script.Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prog, err := script.Parse(src)
	if err != nil {
		return nil, script.WrapErrorWithSource(err, string(path), src)
	}

	return prog, nil
}
