package model

// ManifestEntry records one completed split for the build manifest.
type ManifestEntry struct {
	Source   Path     `yaml:"source"`
	Hash     string   `yaml:"hash"`
	Locals   Path     `yaml:"locals"`
	Main     Path     `yaml:"main"`
	Bindings []string `yaml:"bindings,omitempty"`
}

// Manifest is the on-disk record of a build run.
type Manifest struct {
	GeneratedAt string          `yaml:"generated_at"`
	Entries     []ManifestEntry `yaml:"entries"`
}
