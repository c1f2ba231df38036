// Package linkcheck verifies that internal links in rendered pages resolve
// to outputs written by the same build.
package linkcheck

import (
	"bytes"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// ExtractInternalRefs parses a rendered HTML document and returns all
// internal (site-local) link and asset references: href/src values that are
// root-relative paths. External URLs and fragments are ignored.
func ExtractInternalRefs(doc []byte) ([]string, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}

	var refs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key != "href" && attr.Key != "src" {
					continue
				}
				if ref := normalizeRef(attr.Val); ref != "" {
					refs = append(refs, ref)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	sort.Strings(refs)
	return refs, nil
}

func normalizeRef(val string) string {
	val = strings.TrimSpace(val)
	if val == "" || !strings.HasPrefix(val, "/") || strings.HasPrefix(val, "//") {
		return ""
	}
	// Drop query and fragment; only the path resolves against outputs.
	if i := strings.IndexAny(val, "?#"); i >= 0 {
		val = val[:i]
	}
	return val
}

// Checker resolves internal references against a build's output paths.
type Checker struct {
	basePath string
	outputs  map[string]struct{}
}

// NewChecker creates a checker for the given base path and output paths
// (paths relative to the destination root, e.g. "2019/09/slug/index.html").
func NewChecker(basePath string, outputPaths []string) *Checker {
	outputs := make(map[string]struct{}, len(outputPaths))
	for _, p := range outputPaths {
		outputs[p] = struct{}{}
	}
	return &Checker{basePath: basePath, outputs: outputs}
}

// Missing returns the subset of refs that resolve to no build output.
// References outside the base path are skipped: they point at a different
// site under the same host.
func (c *Checker) Missing(refs []string) []string {
	var missing []string
	seen := make(map[string]struct{})
	for _, ref := range refs {
		rel, ok := c.toOutputPath(ref)
		if !ok {
			continue
		}
		if _, exists := c.outputs[rel]; exists {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		missing = append(missing, ref)
	}
	return missing
}

// toOutputPath maps a site URL path to the output file it should resolve to.
// Directory-style URLs resolve to their index.html.
func (c *Checker) toOutputPath(ref string) (string, bool) {
	if c.basePath != "" {
		if !strings.HasPrefix(ref, c.basePath+"/") && ref != c.basePath {
			return "", false
		}
		ref = strings.TrimPrefix(ref, c.basePath)
	}
	ref = strings.TrimPrefix(ref, "/")
	if ref == "" || strings.HasSuffix(ref, "/") {
		ref += "index.html"
	}
	return ref, true
}
