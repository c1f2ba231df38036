package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildError_ErrorString_IncludesPathAndCause(t *testing.T) {
	cause := errors.New("yaml: line 3: mapping values are not allowed")
	err := FrontMatterParseError("posts/broken.md", cause)

	require.Contains(t, err.Error(), "frontmatter")
	require.Contains(t, err.Error(), "posts/broken.md")
	require.Contains(t, err.Error(), "line 3")
}

func TestBuildError_Unwrap_ExposesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := DestinationWriteError("/out/index.html", cause)

	require.True(t, errors.Is(err, cause))
}

func TestOutputPathCollision_RecordsBothSources(t *testing.T) {
	err := OutputPathCollision("2019/09/post/index.html", "a.md", "b.md")

	require.Equal(t, CategoryCollision, err.Category)
	require.Equal(t, "a.md", err.Context["first_source"])
	require.Equal(t, "b.md", err.Context["second_source"])
	require.Equal(t, "2019/09/post/index.html", err.Path())
}

func TestIsCategory_MatchesOnlyBuildErrors(t *testing.T) {
	require.True(t, IsCategory(SourceNotFound("/missing"), CategorySource))
	require.False(t, IsCategory(errors.New("plain"), CategorySource))
	require.Equal(t, CategoryInternal, GetCategory(errors.New("plain")))
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false)

	require.Equal(t, 0, a.ExitCodeFor(nil))
	require.Equal(t, 1, a.ExitCodeFor(errors.New("plain")))
	require.Equal(t, 2, a.ExitCodeFor(ValidationFailed("source", "empty")))
	require.Equal(t, 7, a.ExitCodeFor(ConfigNotFound("blog.yaml")))
	require.Equal(t, 8, a.ExitCodeFor(SourceNotFound("/missing")))
	require.Equal(t, 11, a.ExitCodeFor(RenderError("x.md", errors.New("bad"))))
}

func TestCLIErrorAdapter_FormatError_NamesOffendingFile(t *testing.T) {
	a := NewCLIErrorAdapter(false)
	msg := a.FormatError(FrontMatterParseError("posts/broken.md", errors.New("bad yaml")))

	require.Contains(t, msg, "posts/broken.md")
	require.Contains(t, msg, "frontmatter")
}
