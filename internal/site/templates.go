package site

import (
	"bytes"
	"embed"
	"html/template"
)

// The layout shell is deliberately fixed: theming and templating systems are
// out of scope, so pages share one minimal semantic-HTML skeleton.

//go:embed templates/*.tmpl
var templateFS embed.FS

var siteTemplates = template.Must(template.New("site").ParseFS(templateFS, "templates/*.tmpl"))

type categoryLink struct {
	Name string
	URL  string
}

type postLink struct {
	Title       string
	URL         string
	DateISO     string
	DateDisplay string
}

type postData struct {
	SiteTitle   string
	Title       string
	Description string
	DateISO     string
	DateDisplay string
	Categories  []categoryLink
	Content     template.HTML
	HomeURL     string
	FeedURL     string
}

type indexData struct {
	SiteTitle string
	Heading   string
	Posts     []postLink
	HomeURL   string
	FeedURL   string
}

func executeTemplate(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := siteTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
