package config

import "path/filepath"

// ProjectDirName is the hidden directory holding project state and templates.
const ProjectDirName = ".auteur"

const (
	configFileName          = "config.json"
	registryFileName        = "registry.json"
	templateFileName        = "template.html"
	ampTemplateFileName     = "amp_template.html"
	rssTemplateFileName     = "rss_template.xml"
	rssItemTemplateFileName = "rss_item_template.xml"
	landingPageFileName     = "index.html"
)

// Project locates the files of one blog project on disk. The zero value
// refers to the current directory.
type Project struct {
	Root string
}

// NewProject returns a project rooted at root.
func NewProject(root string) Project {
	return Project{Root: root}
}

// Dir returns the project state directory.
func (p Project) Dir() string {
	return filepath.Join(p.Root, ProjectDirName)
}

// ConfigPath returns the configuration file path.
func (p Project) ConfigPath() string {
	return filepath.Join(p.Dir(), configFileName)
}

// RegistryPath returns the article registry file path.
func (p Project) RegistryPath() string {
	return filepath.Join(p.Dir(), registryFileName)
}

// TemplatePath returns the page template override path.
func (p Project) TemplatePath() string {
	return filepath.Join(p.Dir(), templateFileName)
}

// AMPTemplatePath returns the AMP template override path.
func (p Project) AMPTemplatePath() string {
	return filepath.Join(p.Dir(), ampTemplateFileName)
}

// RSSTemplatePath returns the RSS document template override path.
func (p Project) RSSTemplatePath() string {
	return filepath.Join(p.Dir(), rssTemplateFileName)
}

// RSSItemTemplatePath returns the RSS item template override path.
func (p Project) RSSItemTemplatePath() string {
	return filepath.Join(p.Dir(), rssItemTemplateFileName)
}

// LandingPagePath returns the landing page output path at the project root.
func (p Project) LandingPagePath() string {
	return filepath.Join(p.Root, landingPageFileName)
}

// Resolve joins a site-relative path onto the project root.
func (p Project) Resolve(rel string) string {
	return filepath.Join(p.Root, rel)
}

func projectRootOf(configPath string) string {
	return filepath.Dir(filepath.Dir(configPath))
}
