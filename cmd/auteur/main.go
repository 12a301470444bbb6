// Command auteur maintains a static blog. init scaffolds a project in the
// working directory, add publishes an article from its markdown or HTML
// source, remove forgets a published article, and build regenerates every
// page, the landing page, and the RSS feed from the registry.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jerradgenson/auteur"
	"github.com/jerradgenson/auteur/cmd/auteur/internal/bootstrap"
)

var moduleOpener = bootstrap.OpenModule

const usageText = `Usage: auteur [-C dir] [-d] <command> [arguments]

Commands:
  init            scaffold a project in the working directory
  add <file>      publish the article whose source is <file>
  remove <title>  forget the article published under <title>
  build           regenerate every page, the landing page, and the feed

Options:
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("auteur: %v", err)
	}
}

func run(args []string) error {
	var debug bool
	fs := flag.NewFlagSet("auteur", flag.ExitOnError)
	dir := fs.String("C", ".", "Run as if auteur was started in this directory")
	fs.BoolVar(&debug, "d", false, "Log debug detail while running")
	fs.BoolVar(&debug, "debug", false, "Alias for -d")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usageText)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("no command given")
	}

	root, err := filepath.Abs(*dir)
	if err != nil {
		return fmt.Errorf("resolve project directory: %w", err)
	}

	ctx := context.Background()
	opts := bootstrap.Options{Root: root, Debug: debug}
	name, rest := fs.Arg(0), fs.Args()[1:]
	switch name {
	case "init":
		return runInit(ctx, opts, rest)
	case "add":
		return runAdd(ctx, opts, rest)
	case "remove":
		return runRemove(ctx, opts, rest)
	case "build":
		return runBuild(ctx, opts, rest)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", name)
	}
}

func runInit(ctx context.Context, opts bootstrap.Options, args []string) error {
	fs := flag.NewFlagSet("auteur init", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	provider, err := bootstrap.BuildProvider(opts)
	if err != nil {
		return err
	}
	handler := auteur.InitProject(opts.Root, auteur.WithLoggerProvider(provider))
	if err := handler.Execute(ctx, auteur.InitProjectCommand{}); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "auteur project initialized in %s\n", opts.Root)
	return nil
}

func runAdd(ctx context.Context, opts bootstrap.Options, args []string) error {
	fs := flag.NewFlagSet("auteur add", flag.ExitOnError)
	pubDate := fs.String("pub-date", "", `Publication date override, e.g. "August 1, 2025"`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("add takes exactly one source file")
	}

	m, err := moduleOpener(opts)
	if err != nil {
		return err
	}
	source := resolveSource(opts.Root, fs.Arg(0))
	cmd := auteur.AddArticleCommand{InputPath: source, PubDate: *pubDate}
	if err := m.AddArticle().Execute(ctx, cmd); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "article published from %s\n", source)
	return nil
}

func runRemove(ctx context.Context, opts bootstrap.Options, args []string) error {
	fs := flag.NewFlagSet("auteur remove", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		return fmt.Errorf("remove takes the article title")
	}

	m, err := moduleOpener(opts)
	if err != nil {
		return err
	}
	if err := m.RemoveArticle().Execute(ctx, auteur.RemoveArticleCommand{Title: title}); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "article removed: %s\n", title)
	return nil
}

func runBuild(ctx context.Context, opts bootstrap.Options, args []string) error {
	fs := flag.NewFlagSet("auteur build", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("build takes no arguments")
	}

	m, err := moduleOpener(opts)
	if err != nil {
		return err
	}
	if err := m.BuildSite().Execute(ctx, auteur.BuildSiteCommand{}); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "site rebuilt")
	return nil
}

// resolveSource interprets a relative source path against the -C directory,
// the way git treats paths after -C.
func resolveSource(root, input string) string {
	if filepath.IsAbs(input) {
		return input
	}
	return filepath.Join(root, input)
}
