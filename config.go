package auteur

import "github.com/jerradgenson/auteur/internal/config"

// Config is the validated, normalized project configuration document.
type Config = config.Config

// Project locates the files of one blog project on disk.
type Project = config.Project

// NewProject returns a project rooted at root.
func NewProject(root string) Project {
	return config.NewProject(root)
}

// DefaultConfig returns the starter configuration project initialization
// writes. Values are placeholders the owner is expected to edit.
func DefaultConfig() *Config {
	return config.Default()
}
