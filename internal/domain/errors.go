package domain

import (
	"errors"
	"fmt"

	"hotsplit.dev/pkg/hotsplit/internal/script"
)

// ErrEntryPointNotFound is returned when no top-level statement calls the
// entry identifier with at least one argument.
var ErrEntryPointNotFound = errors.New("no entry-point call found")

// UnsupportedConstructError reports a syntax form the rewrite pass refuses
// to carry into the main module.
type UnsupportedConstructError struct {
	Construct string
	Pos       script.Position
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("unsupported construct at %s: %s", e.Pos, e.Construct)
}

// UnsupportedBindingShapeError reports a top-level declaration target the
// binding extractor cannot name.
type UnsupportedBindingShapeError struct {
	Shape string
	Pos   script.Position
}

func (e *UnsupportedBindingShapeError) Error() string {
	return fmt.Sprintf("unsupported binding shape at %s: %s", e.Pos, e.Shape)
}

func unsupportedConstruct(src string, n script.Node) error {
	start, _ := n.Bounds()

	return &UnsupportedConstructError{Construct: n.Kind(), Pos: script.PositionAt(src, start)}
}

func unsupportedBindingShape(src string, n script.Node, shape string) error {
	start, _ := n.Bounds()

	return &UnsupportedBindingShapeError{Shape: shape, Pos: script.PositionAt(src, start)}
}
