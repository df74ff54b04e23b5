package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"chemchat/internal/transcript"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders snap as a markdown document, one section per exchange.
func Markdown(snap transcript.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# ChemLLM chat history\n\n")
	fmt.Fprintf(&b, "Model: `%s`  \nExported: %s\n", snap.Model, snap.ExportedAt.UTC().Format("2006-01-02 15:04:05 MST"))

	for i, ex := range snap.Exchanges {
		fmt.Fprintf(&b, "\n## Question %d\n\n", i+1)
		fmt.Fprintf(&b, "_%s · %s_\n\n", ex.SentAt.UTC().Format("2006-01-02 15:04:05"), ex.Parameters)
		for _, line := range strings.Split(ex.UserText, "\n") {
			fmt.Fprintf(&b, "> %s\n", line)
		}
		fmt.Fprintf(&b, "\n%s\n", ex.AssistantText)
	}
	return b.String()
}

// RenderHTML renders snap as a standalone HTML page.
func RenderHTML(snap transcript.Snapshot) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(snap)), &body); err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString("ChemLLM chat history "+snap.ExportedAt.UTC().Format("2006-01-02")))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
