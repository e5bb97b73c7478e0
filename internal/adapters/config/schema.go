package config

// ManifestVersion is the manifest schema version this build reads.
const ManifestVersion = "1"

// Manifest represents the structure of the ancestry.yaml job manifest.
type Manifest struct {
	Version     string    `yaml:"version"`
	Root        string    `yaml:"root"`
	Concurrency int       `yaml:"concurrency"`
	BatchSize   int       `yaml:"batchSize"`
	Format      string    `yaml:"format"`
	Jobs        []*JobDTO `yaml:"jobs"`
}

// JobDTO represents a job definition in the manifest.
type JobDTO struct {
	Name       string `yaml:"name"`
	Component  string `yaml:"component"`
	Parent     string `yaml:"parent"`
	Provenance string `yaml:"provenance"`
	Output     string `yaml:"output"`
	Format     string `yaml:"format"`
}
