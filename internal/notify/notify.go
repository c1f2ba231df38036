// Package notify publishes build-completed events over NATS so deploy
// automation can react to new site builds.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/thought2/blog/internal/config"
	"github.com/thought2/blog/internal/logfields"
	"github.com/thought2/blog/internal/manifest"
)

// BuildEvent is the payload published for each completed build.
type BuildEvent struct {
	BuildID    string    `json:"build_id"`
	Timestamp  time.Time `json:"timestamp"`
	Status     string    `json:"status"`
	SiteHash   string    `json:"site_hash"`
	PageCount  int       `json:"page_count"`
	AssetCount int       `json:"asset_count"`
	DurationMS int64     `json:"duration_ms"`
	OutputDir  string    `json:"output_dir"`
}

// Publisher publishes build events to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the configured NATS server.
func NewPublisher(cfg *config.NotifyConfig) (*Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("notify is disabled")
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name("blogbuilder"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// PublishBuild publishes a build-completed event derived from the manifest.
func (p *Publisher) PublishBuild(m *manifest.SiteManifest, outputDir string) error {
	siteHash, err := m.Hash()
	if err != nil {
		return fmt.Errorf("hash manifest: %w", err)
	}

	event := BuildEvent{
		BuildID:    m.ID,
		Timestamp:  m.Timestamp,
		Status:     m.Status,
		SiteHash:   siteHash,
		PageCount:  len(m.Pages),
		AssetCount: len(m.Assets),
		DurationMS: m.DurationMS,
		OutputDir:  outputDir,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish build event: %w", err)
	}

	slog.Info("Published build event", slog.String("subject", p.subject), slog.String("build_id", m.ID), logfields.Output(outputDir))
	return nil
}

// Close flushes and closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Flush(); err != nil {
		slog.Warn("Failed to flush NATS connection", logfields.Error(err))
	}
	p.conn.Close()
}
