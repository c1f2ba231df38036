package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thought2/blog/internal/config"
	"github.com/thought2/blog/internal/manifest"
)

func TestNewPublisher_Disabled_ReturnsError(t *testing.T) {
	_, err := NewPublisher(&config.NotifyConfig{Enabled: false})
	require.Error(t, err)

	_, err = NewPublisher(nil)
	require.Error(t, err)
}

func TestBuildEvent_SerializesManifestSummary(t *testing.T) {
	m := manifest.New("/src", "/blog", "cfg")
	m.AddPage(manifest.PageEntry{Output: "a/index.html"}, []byte("x"))
	m.Status = manifest.StatusSuccess
	siteHash, err := m.Hash()
	require.NoError(t, err)

	event := BuildEvent{
		BuildID:   m.ID,
		Status:    m.Status,
		SiteHash:  siteHash,
		PageCount: len(m.Pages),
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)

	var back BuildEvent
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, m.ID, back.BuildID)
	require.Equal(t, siteHash, back.SiteHash)
	require.Equal(t, 1, back.PageCount)
}
