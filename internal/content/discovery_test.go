package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thought2/blog/internal/frontmatter"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscover_ClassifiesPostsAndAssets(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "posts/hello.md", "# Hello")
	writeFile(t, root, "posts/images/diagram.png", "pngdata")
	writeFile(t, root, "style.css", "body{}")
	writeFile(t, root, "notes.docx", "binary")

	files, err := NewDiscovery(root).Discover()
	require.NoError(t, err)
	require.Len(t, files, 3)

	byRel := map[string]File{}
	for _, f := range files {
		byRel[f.RelativePath] = f
	}
	require.False(t, byRel["posts/hello.md"].IsAsset)
	require.True(t, byRel["posts/images/diagram.png"].IsAsset)
	require.True(t, byRel["style.css"].IsAsset)
}

func TestDiscover_SkipsHiddenFilesAndDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/config.md", "not content")
	writeFile(t, root, ".hidden.md", "not content")
	writeFile(t, root, "visible.md", "# ok")

	files, err := NewDiscovery(root).Discover()
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "visible.md", files[0].RelativePath)
}

func TestDiscover_EmptyRoot_SucceedsWithNoFiles(t *testing.T) {
	files, err := NewDiscovery(t.TempDir()).Discover()
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestLoadContent_ReadsOnceAndCaches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "# A")

	f := File{Path: filepath.Join(root, "a.md"), RelativePath: "a.md"}
	require.NoError(t, f.LoadContent())
	require.Equal(t, []byte("# A"), f.Content)

	// Mutating on disk must not change cached content.
	writeFile(t, root, "a.md", "changed")
	require.NoError(t, f.LoadContent())
	require.Equal(t, []byte("# A"), f.Content)
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"It's All About Translation", "it-s-all-about-translation"},
		{"Hello, World!", "hello-world"},
		{"  spaced  out  ", "spaced-out"},
		{"Café Récit", "cafe-recit"},
		{"already-a-slug", "already-a-slug"},
		{"MixedCASE123", "mixedcase123"},
		{"---", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestPostSlug_PrefersExplicitFrontMatterSlug(t *testing.T) {
	meta, err := frontmatter.DecodeMeta([]byte("title: T\ndate: 2020-01-01\nslug: Custom Slug\n"))
	require.NoError(t, err)

	p := Post{File: File{Name: "file-name"}, Meta: meta}
	require.Equal(t, "custom-slug", p.Slug())
}

func TestPostSlug_FallsBackToFileName(t *testing.T) {
	p := Post{File: File{Name: "2019-09-16-translation"}}
	require.Equal(t, "2019-09-16-translation", p.Slug())
}
