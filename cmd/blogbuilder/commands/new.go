package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thought2/blog/internal/content"
	"github.com/thought2/blog/internal/frontmatter"
	"github.com/thought2/blog/internal/gitsource"
)

// NewCmd implements the 'new' command: scaffold a post file under the
// content directory with front matter filled in.
type NewCmd struct {
	Title string `arg:"" help:"Post title"`
	Draft bool   `help:"Mark the post as a draft"`
}

func (n *NewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return exitWithError(err, root.Verbose)
	}
	if gitsource.IsGitURL(cfg.Source) {
		return fmt.Errorf("cannot scaffold posts into a git URL source; check out the repository and point source at it")
	}

	slug := content.Slugify(n.Title)
	if slug == "" {
		return fmt.Errorf("title %q produces an empty slug", n.Title)
	}

	path := filepath.Join(cfg.Source, fmt.Sprintf("%s.md", slug))
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("post already exists: %s", path)
	}

	doc, err := scaffoldPost(n.Title, n.Draft, time.Now())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Source, 0o755); err != nil {
		return fmt.Errorf("create content directory: %w", err)
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write post file: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}

// scaffoldPost assembles a new post document: typed front matter serialized
// to YAML, joined with a placeholder body.
func scaffoldPost(title string, draft bool, now time.Time) ([]byte, error) {
	meta := frontmatter.Meta{
		Title: title,
		Date:  now.Format(time.RFC3339),
		Draft: draft,
	}
	fm, err := yaml.Marshal(&meta)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	body := []byte("\nWrite your post here.")
	style := frontmatter.Style{Newline: "\n", HasTrailingNewline: true}
	return frontmatter.Join(fm, body, true, style), nil
}
