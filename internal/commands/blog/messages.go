package blogcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jerradgenson/auteur/internal/article"
)

const (
	addArticleMessageType    = "auteur.blog.add_article"
	removeArticleMessageType = "auteur.blog.remove_article"
	buildSiteMessageType     = "auteur.blog.build_site"
	initProjectMessageType   = "auteur.blog.init_project"
)

// AddArticleCommand publishes the source file at InputPath: render its
// pages, register it chronologically, rewire neighbor navigation, and
// regenerate the landing page and feed.
type AddArticleCommand struct {
	// InputPath selects the Markdown or HTML source file (relative or absolute) to publish.
	InputPath string `json:"input_path"`
	// PubDate overrides the publication date declared by the source. Accepts any recognized date form.
	PubDate string `json:"pub_date,omitempty"`
}

// Type implements command.Message.
func (AddArticleCommand) Type() string { return addArticleMessageType }

// Validate ensures the source path is present and any date override parses
// before handlers execute.
func (cmd AddArticleCommand) Validate() error {
	err := validation.ValidateStruct(&cmd,
		validation.Field(&cmd.InputPath, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("auteur.blog.add_article.input_path_required", "input path is required")
			}
			return nil
		})),
		validation.Field(&cmd.PubDate, validation.By(func(value any) error {
			text := strings.TrimSpace(value.(string))
			if text == "" {
				return nil
			}
			if _, err := article.ParseDate(text); err != nil {
				return validation.NewError("auteur.blog.add_article.pub_date_invalid", "pub date is not a recognized date form")
			}
			return nil
		})),
	)
	if err != nil {
		return err
	}
	return nil
}

// RemoveArticleCommand deletes the article titled Title from the registry
// and rebuilds the remaining site. Rendered files stay on disk.
type RemoveArticleCommand struct {
	// Title selects the article to remove by its exact title.
	Title string `json:"title"`
}

// Type implements command.Message.
func (RemoveArticleCommand) Type() string { return removeArticleMessageType }

// Validate ensures a title is present before handlers execute.
func (cmd RemoveArticleCommand) Validate() error {
	err := validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Title, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("auteur.blog.remove_article.title_required", "title is required")
			}
			return nil
		})),
	)
	if err != nil {
		return err
	}
	return nil
}

// BuildSiteCommand re-renders every registered article from its best
// available source and regenerates the landing page and feed.
type BuildSiteCommand struct{}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// InitProjectCommand scaffolds a new project: the starter configuration
// file plus the default page, AMP, and RSS templates.
type InitProjectCommand struct{}

// Type implements command.Message.
func (InitProjectCommand) Type() string { return initProjectMessageType }
