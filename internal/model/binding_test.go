package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBindingsHelpers(t *testing.T) {
	bindings := Bindings{
		{Name: "greeting", Mutable: false},
		{Name: "count", Mutable: true},
		{Name: "config.port", Mutable: true},
	}

	assert.Equal(t, []string{"greeting", "count", "config.port"}, bindings.Names())
	assert.Equal(t, 2, bindings.CountMutable())
}

func TestDerivedModuleKinds(t *testing.T) {
	assert.Equal(t, ModuleKind("locals"), ModuleLocals)
	assert.Equal(t, ModuleKind("main"), ModuleMain)
}
