package site

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thought2/blog/internal/config"
	"github.com/thought2/blog/internal/content"
	"github.com/thought2/blog/internal/frontmatter"
)

func feedPost(t *testing.T, title, slug, date string) content.Post {
	t.Helper()
	meta, err := frontmatter.DecodeMeta([]byte("title: " + title + "\nslug: " + slug + "\ndate: " + date + "\n"))
	require.NoError(t, err)
	return content.Post{Meta: meta}
}

func TestBuildFeed_UpdatedComesFromNewestPost(t *testing.T) {
	cfg := &config.Config{Site: config.SiteConfig{Title: "Blog", BaseURL: "https://example.com", BasePath: "/blog"}}
	posts := []content.Post{
		feedPost(t, "Newer", "newer", "2023-06-02"),
		feedPost(t, "Older", "older", "2021-01-15"),
	}

	out, err := buildFeed(cfg, posts)
	require.NoError(t, err)
	feed := string(out)

	require.Contains(t, feed, "<updated>2023-06-02T00:00:00Z</updated>")
	require.Contains(t, feed, `href="https://example.com/blog/2023/06/newer/"`)
	require.Contains(t, feed, `href="https://example.com/blog/feed.xml"`)
}

func TestBuildFeed_NoPosts_UsesEpochNotBuildClock(t *testing.T) {
	cfg := &config.Config{Site: config.SiteConfig{Title: "Blog"}}

	out, err := buildFeed(cfg, nil)
	require.NoError(t, err)
	require.Contains(t, string(out), "<updated>1970-01-01T00:00:00Z</updated>")
}

func TestBuildFeed_WithBaseURL_IDsAreAbsolute(t *testing.T) {
	cfg := &config.Config{Site: config.SiteConfig{Title: "Blog", BaseURL: "https://example.com/", BasePath: "/blog"}}
	posts := []content.Post{feedPost(t, "Post", "post", "2022-04-01")}

	out, err := buildFeed(cfg, posts)
	require.NoError(t, err)
	feed := string(out)

	require.Contains(t, feed, "<id>https://example.com/blog/</id>")
	require.Contains(t, feed, "<id>https://example.com/blog/2022/04/post/</id>")
	require.NotContains(t, feed, "<id>/blog/")
}

func TestBuildFeed_LimitsEntries(t *testing.T) {
	cfg := &config.Config{Site: config.SiteConfig{Title: "Blog"}}
	var posts []content.Post
	for i := 0; i < feedEntryLimit+5; i++ {
		posts = append(posts, feedPost(t, "Post", "post", "2020-01-01"))
	}

	out, err := buildFeed(cfg, posts)
	require.NoError(t, err)
	require.Equal(t, feedEntryLimit, strings.Count(string(out), "<entry>"))
}
