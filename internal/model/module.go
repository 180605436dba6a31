package model

// ModuleKind identifies which half of a split a derived module is.
type ModuleKind string

const (
	// ModuleLocals is the module carrying the original top-level
	// declarations plus the sealed accessor-object export.
	ModuleLocals ModuleKind = "locals"

	// ModuleMain is the module exporting the rewritten entry function.
	ModuleMain ModuleKind = "main"
)

// Module is one derived output module.
type Module struct {
	Kind   ModuleKind
	Path   Path
	Source string
}

// Split is the complete result of splitting one script.
type Split struct {
	Script   Script
	Bindings Bindings
	Locals   Module
	Main     Module
}
