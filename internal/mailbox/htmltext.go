package mailbox

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	multiNewline = regexp.MustCompile(`\n{3,}`)
	multiSpace   = regexp.MustCompile(`[ \t]+`)
)

// HTMLToText renders an HTML mail body into plain text suitable for a model
// prompt: scripts and styles dropped, block elements and table rows separated
// by newlines, cells by spaces. Signal mails are mostly tables, so keeping
// row structure matters more than typography.
func HTMLToText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	doc.Find("script, style, head").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("td, th").AfterHtml(" ")
	doc.Find("p, div, tr, li, table, h1, h2, h3, h4, h5, h6").AfterHtml("\n")

	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}

	text = multiSpace.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = multiNewline.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// BodyText picks the most useful text representation of a mail for prompting:
// decoded plain text when present, rendered HTML otherwise, snippet as a last
// resort.
func BodyText(plainText, htmlText, snippet string) string {
	if strings.TrimSpace(plainText) != "" {
		return plainText
	}
	if rendered := HTMLToText(htmlText); rendered != "" {
		return rendered
	}
	return snippet
}
