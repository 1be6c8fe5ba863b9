// blocks.go converts portable-text content blocks into HTML. Text is
// always escaped; only a fixed set of decorators and link annotations
// produce markup, so store content can never inject script into a page.
package render

import (
	"html"
	"net/url"
	"strings"

	"inkwell/internal/models"
)

// blockTags maps portable-text block styles to their HTML tags.
var blockTags = map[string]string{
	"h1":         "h1",
	"h2":         "h2",
	"h3":         "h3",
	"h4":         "h4",
	"blockquote": "blockquote",
	"normal":     "p",
}

// decoratorTags maps span decorators to inline HTML tags.
var decoratorTags = map[string]string{
	"strong":         "strong",
	"em":             "em",
	"code":           "code",
	"underline":      "u",
	"strike-through": "s",
}

// BlocksToHTML renders a portable-text body. Consecutive list-item blocks
// of the same kind are grouped into a single <ul> or <ol>; unknown block
// types are skipped.
func BlocksToHTML(blocks []models.Block) string {
	var b strings.Builder
	openList := "" // "" | "bullet" | "number"

	closeList := func() {
		switch openList {
		case "bullet":
			b.WriteString("</ul>\n")
		case "number":
			b.WriteString("</ol>\n")
		}
		openList = ""
	}

	for _, block := range blocks {
		if block.Type != "block" {
			continue
		}

		if block.ListItem != "" {
			if openList != block.ListItem {
				closeList()
				if block.ListItem == "number" {
					b.WriteString("<ol>\n")
				} else {
					b.WriteString("<ul>\n")
				}
				openList = block.ListItem
			}
			b.WriteString("<li>")
			writeSpans(&b, block)
			b.WriteString("</li>\n")
			continue
		}

		closeList()
		tag, ok := blockTags[block.Style]
		if !ok {
			tag = "p"
		}
		b.WriteString("<" + tag + ">")
		writeSpans(&b, block)
		b.WriteString("</" + tag + ">\n")
	}
	closeList()

	return b.String()
}

// writeSpans renders a block's children with their marks applied.
func writeSpans(b *strings.Builder, block models.Block) {
	defs := make(map[string]models.MarkDef, len(block.MarkDefs))
	for _, def := range block.MarkDefs {
		defs[def.Key] = def
	}

	for _, span := range block.Children {
		var opening, closing strings.Builder
		for _, mark := range span.Marks {
			if tag, ok := decoratorTags[mark]; ok {
				opening.WriteString("<" + tag + ">")
				closing.WriteString("</" + tag + ">")
				continue
			}
			if def, ok := defs[mark]; ok && def.Type == "link" {
				if href := safeHref(def.Href); href != "" {
					opening.WriteString(`<a href="` + html.EscapeString(href) + `">`)
					closing.WriteString("</a>")
				}
			}
		}
		b.WriteString(opening.String())
		b.WriteString(html.EscapeString(span.Text))
		// Closing tags must unwind in reverse order of opening.
		b.WriteString(reverseTags(closing.String()))
	}
}

// reverseTags reverses a sequence of closing tags like "</a></strong>".
func reverseTags(s string) string {
	if s == "" {
		return ""
	}
	var tags []string
	for _, part := range strings.SplitAfter(s, ">") {
		if part != "" {
			tags = append(tags, part)
		}
	}
	for i, j := 0, len(tags)-1; i < j; i, j = i+1, j-1 {
		tags[i], tags[j] = tags[j], tags[i]
	}
	return strings.Join(tags, "")
}

// safeHref allows only http(s) link targets.
func safeHref(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return href
}
