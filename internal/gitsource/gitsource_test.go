package gitsource

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsGitURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://github.com/user/blog-content", true},
		{"http://git.example.com/blog.git", true},
		{"git@github.com:user/blog.git", true},
		{"ssh://git@example.com/blog.git", true},
		{"git://example.com/blog.git", true},
		{"./content", false},
		{"/home/user/content", false},
		{"content", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, IsGitURL(tc.in), "input %q", tc.in)
	}
}

func TestWorkspace_CleanupIsIdempotent(t *testing.T) {
	w := &Workspace{dir: t.TempDir()}
	w.Cleanup()
	require.Empty(t, w.Path())
	w.Cleanup() // second call must not panic
}
