// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"html"
	"regexp"
	"strings"

	"github.com/pdiddy/arxiv-research/pkg/types"
)

var (
	scriptBlock = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlock  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	anyTag      = regexp.MustCompile(`<[^>]+>`)
	spaceRun    = regexp.MustCompile(`[\s\p{Zs}]+`)
	titleTag    = regexp.MustCompile(`(?i)<title>([^<]+)</title>`)
)

// ExtractText strips an HTML document down to plain text. Script and style
// blocks go first, then every remaining tag is replaced by a space,
// entities are decoded and whitespace runs collapse to one space. It never
// fails: unbalanced or broken markup is stripped as far as the patterns
// reach.
func ExtractText(doc string) string {
	doc = scriptBlock.ReplaceAllString(doc, "")
	doc = styleBlock.ReplaceAllString(doc, "")
	text := anyTag.ReplaceAllString(doc, " ")
	text = html.UnescapeString(text)
	text = spaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ExtractTitle returns the trimmed contents of the first <title> element,
// or types.UnknownTitle.
func ExtractTitle(doc string) string {
	m := titleTag.FindStringSubmatch(doc)
	if m == nil {
		return types.UnknownTitle
	}
	title := strings.TrimSpace(html.UnescapeString(m[1]))
	if title == "" {
		return types.UnknownTitle
	}
	return title
}
