// Package controller provides output adapters for displaying split results.
package controller

import (
	"context"
	"os"

	"golang.org/x/term"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

// UI defines the interface for displaying split results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayBindings(ctx context.Context, splits []m.Split, err error) error
	DisplayBuildSummary(ctx context.Context, splits []m.Split) error
	DisplayDiff(ctx context.Context, split m.Split) error
	DisplayBuildError(ctx context.Context, path m.Path, err error)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
