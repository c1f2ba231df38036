package site

import (
	"context"
	"crypto/sha256"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thought2/blog/internal/config"
	berrors "github.com/thought2/blog/internal/errors"
)

func testConfig(t *testing.T, basePath string) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Site:   config.SiteConfig{Title: "Test Blog", BasePath: basePath},
		Source: filepath.Join(t.TempDir(), "content"),
		Output: config.OutputConfig{Directory: filepath.Join(t.TempDir(), "public")},
	}
	require.NoError(t, os.MkdirAll(cfg.Source, 0o755))
	return cfg
}

func writeSource(t *testing.T, cfg *config.Config, name, data string) {
	t.Helper()
	path := filepath.Join(cfg.Source, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func readOutput(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Output.Directory, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

const translationPost = `---
title: "It's All About Translation"
date: 2019-09-16
categories: [essays]
---

A post about [the home page](/) with an image ![diagram](./diagram.png).
`

func TestBuild_RoutesPostByDateAndSlug(t *testing.T) {
	cfg := testConfig(t, "/blog")
	writeSource(t, cfg, "its-all-about-translation.md", translationPost)
	writeSource(t, cfg, "diagram.png", "png-bytes")

	m, err := NewGenerator(cfg).Build(context.Background())
	require.NoError(t, err)

	html := readOutput(t, cfg, "2019/09/its-all-about-translation/index.html")
	require.Contains(t, html, "It&#39;s All About Translation")
	// Internal links carry the base path; disk layout does not.
	require.Contains(t, html, `href="/blog/"`)
	require.Contains(t, html, `src="/blog/diagram.png"`)

	require.Equal(t, "success", m.Status)
	require.Contains(t, m.OutputPaths(), "2019/09/its-all-about-translation/index.html")

	index := readOutput(t, cfg, "index.html")
	require.Contains(t, index, `href="/blog/2019/09/its-all-about-translation/"`)

	category := readOutput(t, cfg, "categories/essays/index.html")
	require.Contains(t, category, "essays")
	require.Contains(t, category, "It&#39;s All About Translation")
}

func hashOutputTree(t *testing.T, root string) map[string][32]byte {
	t.Helper()
	hashes := make(map[string][32]byte)
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		hashes[filepath.ToSlash(rel)] = sha256.Sum256(data)
		return nil
	})
	require.NoError(t, err)
	return hashes
}

func TestBuild_SameInputs_ProduceIdenticalOutputTrees(t *testing.T) {
	cfg := testConfig(t, "/blog")
	writeSource(t, cfg, "its-all-about-translation.md", translationPost)
	writeSource(t, cfg, "diagram.png", "png-bytes")

	_, err := NewGenerator(cfg).Build(context.Background())
	require.NoError(t, err)
	first := hashOutputTree(t, cfg.Output.Directory)

	_, err = NewGenerator(cfg).Build(context.Background())
	require.NoError(t, err)
	second := hashOutputTree(t, cfg.Output.Directory)

	require.Equal(t, first, second)
}

func TestBuild_DuplicateRoute_FailsWithCollision(t *testing.T) {
	cfg := testConfig(t, "")
	post := `---
title: First
date: 2020-01-10
slug: shared
---
body
`
	other := `---
title: Second
date: 2020-01-20
slug: shared
---
body
`
	writeSource(t, cfg, "a.md", post)
	writeSource(t, cfg, "b.md", other)

	_, err := NewGenerator(cfg).Build(context.Background())
	require.Error(t, err)
	require.True(t, berrors.IsCategory(err, berrors.CategoryCollision))

	be, ok := berrors.AsBuildError(err)
	require.True(t, ok)
	require.Equal(t, "2020/01/shared/index.html", be.Context["path"])

	// Nothing was published.
	_, statErr := os.Stat(cfg.Output.Directory)
	require.True(t, os.IsNotExist(statErr))
}

func TestBuild_MalformedFrontMatter_FailsNamingTheFile(t *testing.T) {
	cfg := testConfig(t, "")
	writeSource(t, cfg, "good.md", "---\ntitle: Good\ndate: 2021-05-01\n---\nok\n")
	writeSource(t, cfg, "broken.md", "---\ntitle: [unclosed\ndate: 2021-05-02\n---\nbody\n")

	_, err := NewGenerator(cfg).Build(context.Background())
	require.Error(t, err)
	require.True(t, berrors.IsCategory(err, berrors.CategoryFrontMatter))
	require.Contains(t, err.Error(), "broken.md")

	_, statErr := os.Stat(cfg.Output.Directory)
	require.True(t, os.IsNotExist(statErr))
}

func TestBuild_FailedBuild_PreservesPreviousOutput(t *testing.T) {
	cfg := testConfig(t, "")
	writeSource(t, cfg, "first.md", "---\ntitle: First\ndate: 2022-03-01\n---\nhello\n")

	_, err := NewGenerator(cfg).Build(context.Background())
	require.NoError(t, err)
	before := readOutput(t, cfg, "2022/03/first/index.html")

	writeSource(t, cfg, "broken.md", "no front matter here\n")
	_, err = NewGenerator(cfg).Build(context.Background())
	require.Error(t, err)

	// Prior site is intact and no staging directory remains.
	require.Equal(t, before, readOutput(t, cfg, "2022/03/first/index.html"))
	_, statErr := os.Stat(cfg.Output.Directory + "_stage")
	require.True(t, os.IsNotExist(statErr))
}

func TestBuild_CopiesAssetsByteForByte(t *testing.T) {
	cfg := testConfig(t, "")
	payload := string([]byte{0x89, 'P', 'N', 'G', 0x00, 0x01, 0xFF})
	writeSource(t, cfg, "images/photo.png", payload)
	writeSource(t, cfg, "style.css", "body { margin: 0 }\n")

	m, err := NewGenerator(cfg).Build(context.Background())
	require.NoError(t, err)

	require.Equal(t, payload, readOutput(t, cfg, "images/photo.png"))
	require.Equal(t, "body { margin: 0 }\n", readOutput(t, cfg, "style.css"))
	require.Len(t, m.Assets, 3) // two assets plus the feed
}

func TestBuild_EmptySource_StillWritesIndexFeedAndManifest(t *testing.T) {
	cfg := testConfig(t, "")

	m, err := NewGenerator(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Empty(t, m.Pages[0].Title)

	readOutput(t, cfg, "index.html")
	feed := readOutput(t, cfg, "feed.xml")
	require.Contains(t, feed, "<feed")
	manifest := readOutput(t, cfg, "site-manifest.json")
	require.Contains(t, manifest, "site_hash")
}

func TestBuild_SkipsDraftsUnlessEnabled(t *testing.T) {
	cfg := testConfig(t, "")
	writeSource(t, cfg, "wip.md", "---\ntitle: WIP\ndate: 2023-07-01\ndraft: true\n---\nnot yet\n")

	m, err := NewGenerator(cfg).Build(context.Background())
	require.NoError(t, err)
	require.NotContains(t, m.OutputPaths(), "2023/07/wip/index.html")

	cfg.Build.Drafts = true
	m, err = NewGenerator(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Contains(t, m.OutputPaths(), "2023/07/wip/index.html")
}

func TestBuild_MissingSource_ReturnsSourceError(t *testing.T) {
	cfg := testConfig(t, "")
	require.NoError(t, os.RemoveAll(cfg.Source))

	_, err := NewGenerator(cfg).Build(context.Background())
	require.Error(t, err)
	require.True(t, berrors.IsCategory(err, berrors.CategorySource))

	_, statErr := os.Stat(cfg.Output.Directory)
	require.True(t, os.IsNotExist(statErr))
}

func TestBuild_Canceled_ReturnsCanceledOutcome(t *testing.T) {
	cfg := testConfig(t, "")
	writeSource(t, cfg, "a.md", "---\ntitle: A\ndate: 2020-01-01\n---\nbody\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator(cfg).Build(ctx)
	require.Error(t, err)
	require.Equal(t, "canceled", buildOutcome(err))
}
