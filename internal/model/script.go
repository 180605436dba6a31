// Package model defines the data structures for script splitting.
package model

// Path represents a file system path.
type Path string

// Script represents an input script loaded from disk.
type Script struct {
	Path   Path
	Source string
	Hash   string
}
