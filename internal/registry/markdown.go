package registry

import (
	"bytes"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in descriptions is dropped: the renderer runs without html.WithUnsafe.
// Fenced runbook snippets are syntax highlighted.
var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
)

// DescriptionHTML renders a map description written in Markdown.
func DescriptionHTML(desc string) string {
	if desc == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(desc), &buf); err != nil {
		return ""
	}
	return buf.String()
}
