// Package domain contains the core script splitting workflow and logic.
package domain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"hotsplit.dev/pkg/hotsplit/internal/adapter"
	"hotsplit.dev/pkg/hotsplit/internal/script"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

// Default names used when no configuration overrides them.
const (
	DefaultEntryName  = "app"
	DefaultLocalsName = "locals"
)

// Splitter turns one script into its locals and main modules.
type Splitter interface {
	Split(ctx context.Context, scriptFile m.Script) (m.Split, error)
}

// SplitterOption customizes a Splitter.
type SplitterOption func(*splitter)

// WithEntryName overrides the entry identifier the locator searches for.
func WithEntryName(name string) SplitterOption {
	return func(sp *splitter) {
		if name != "" {
			sp.entry = name
		}
	}
}

// WithLocalsName overrides the parameter name of the exported main function.
func WithLocalsName(name string) SplitterOption {
	return func(sp *splitter) {
		if name != "" {
			sp.locals = name
		}
	}
}

type splitter struct {
	adapter.ScriptFileAdapter

	entry  string
	locals string
}

// NewSplitter creates a Splitter backed by the provided parser adapter.
func NewSplitter(scriptFileAdapter adapter.ScriptFileAdapter, opts ...SplitterOption) Splitter {
	sp := &splitter{
		ScriptFileAdapter: scriptFileAdapter,
		entry:             DefaultEntryName,
		locals:            DefaultLocalsName,
	}

	for _, opt := range opts {
		opt(sp)
	}

	return sp
}

func (sp *splitter) Split(ctx context.Context, scriptFile m.Script) (m.Split, error) {
	if sp.ScriptFileAdapter == nil {
		return m.Split{}, fmt.Errorf("missing script file adapter")
	}

	prog, err := sp.Parse(ctx, scriptFile.Path, scriptFile.Source)
	if err != nil {
		return m.Split{}, fmt.Errorf("failed to parse %s: %w", scriptFile.Path, err)
	}

	ep, err := locateEntryPoint(prog, sp.entry)
	if err != nil {
		return m.Split{}, fmt.Errorf("%s: %w", scriptFile.Path, err)
	}

	if spread, ok := ep.arg.(*script.SpreadExpr); ok {
		return m.Split{}, fmt.Errorf("%s: %w", scriptFile.Path, unsupportedConstruct(scriptFile.Source, spread))
	}

	bindings, err := extractBindings(scriptFile.Source, prog, ep, sp.entry)
	if err != nil {
		return m.Split{}, fmt.Errorf("%s: %w", scriptFile.Path, err)
	}

	localsSrc, err := synthesizeLocals(scriptFile.Source, ep, bindings)
	if err != nil {
		return m.Split{}, fmt.Errorf("%s: %w", scriptFile.Path, err)
	}

	mainSrc, err := synthesizeMain(scriptFile.Source, ep, bindings, sp.locals)
	if err != nil {
		return m.Split{}, fmt.Errorf("%s: %w", scriptFile.Path, err)
	}

	return m.Split{
		Script:   scriptFile,
		Bindings: bindings,
		Locals: m.Module{
			Kind:   m.ModuleLocals,
			Path:   DerivedPath(scriptFile.Path, m.ModuleLocals),
			Source: localsSrc,
		},
		Main: m.Module{
			Kind:   m.ModuleMain,
			Path:   DerivedPath(scriptFile.Path, m.ModuleMain),
			Source: mainSrc,
		},
	}, nil
}

// DerivedPath returns the sibling output path for a module kind, e.g.
// app.ts becomes app.locals.ts or app.main.ts.
func DerivedPath(p m.Path, kind m.ModuleKind) m.Path {
	ext := filepath.Ext(string(p))
	stem := strings.TrimSuffix(string(p), ext)

	return m.Path(stem + "." + string(kind) + ext)
}

// IsDerivedPath reports whether a path looks like a split output, so scans
// do not feed generated modules back into the splitter.
func IsDerivedPath(p m.Path) bool {
	ext := filepath.Ext(string(p))
	stem := strings.TrimSuffix(string(p), ext)

	return strings.HasSuffix(stem, "."+string(m.ModuleLocals)) ||
		strings.HasSuffix(stem, "."+string(m.ModuleMain))
}
