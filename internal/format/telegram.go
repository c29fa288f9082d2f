// Package format converts the assistant's markdown-flavored output into
// Telegram HTML. The conversion is total: any input produces valid,
// HTML-escaped output and never panics.
package format

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedRe    = regexp.MustCompile("(?s)```([a-zA-Z0-9+#-]*)\n?(.*?)```")
	inlineRe    = regexp.MustCompile("`([^`\n]+)`")
	boldRe      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	underlineRe = regexp.MustCompile(`__(.+?)__`)
	italicRe    = regexp.MustCompile(`\*(.+?)\*`)
	strikeRe    = regexp.MustCompile(`~~(.+?)~~`)
	spoilerRe   = regexp.MustCompile(`\|\|(.+?)\|\|`)
	linkRe      = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
)

// Placeholders carry lifted code segments through the escaping and marker
// passes. NUL never appears in Telegram message text.
const placeholderFmt = "\x00%d\x00"

// TelegramHTML renders assistant output as Telegram HTML markup: bold,
// italic, underline, strikethrough, inline code, fenced code blocks, links,
// spoilers and expandable sections.
func TelegramHTML(raw string) string {
	var lifted []string
	lift := func(html string) string {
		lifted = append(lifted, html)
		return fmt.Sprintf(placeholderFmt, len(lifted)-1)
	}

	// Code segments are lifted out first so their content is escaped once
	// and markdown markers inside them are left alone.
	text := fencedRe.ReplaceAllStringFunc(raw, func(m string) string {
		sub := fencedRe.FindStringSubmatch(m)
		lang, body := sub[1], strings.TrimSuffix(sub[2], "\n")
		if lang != "" {
			return lift(fmt.Sprintf(`<pre><code class="language-%s">%s</code></pre>`, lang, escape(body)))
		}
		return lift("<pre>" + escape(body) + "</pre>")
	})
	text = inlineRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := inlineRe.FindStringSubmatch(m)
		return lift("<code>" + escape(sub[1]) + "</code>")
	})

	text = escape(text)
	text = expandableSections(text)

	text = boldRe.ReplaceAllString(text, "<b>$1</b>")
	text = underlineRe.ReplaceAllString(text, "<u>$1</u>")
	text = italicRe.ReplaceAllString(text, "<i>$1</i>")
	text = strikeRe.ReplaceAllString(text, "<s>$1</s>")
	text = spoilerRe.ReplaceAllString(text, `<span class="tg-spoiler">$1</span>`)
	text = linkRe.ReplaceAllString(text, `<a href="$2">$1</a>`)

	for i, html := range lifted {
		text = strings.Replace(text, fmt.Sprintf(placeholderFmt, i), html, 1)
	}
	return text
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// expandableSections rewrites the "**> Title" / "> line" block form into an
// expandable blockquote. It runs on escaped text, so the markers to match
// are "**&gt;" and "&gt;".
func expandableSections(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		switch {
		case strings.HasPrefix(trimmed, "**&gt; "):
			if inBlock {
				out = append(out, "</blockquote>")
			}
			out = append(out, "<blockquote expandable>"+strings.TrimPrefix(trimmed, "**&gt; "))
			inBlock = true
		case inBlock && strings.HasPrefix(trimmed, "&gt; "):
			out = append(out, strings.TrimPrefix(trimmed, "&gt; "))
		case inBlock && trimmed == "&gt;":
			out = append(out, "")
		default:
			if inBlock {
				out = append(out, "</blockquote>")
				inBlock = false
			}
			out = append(out, line)
		}
	}
	if inBlock {
		out = append(out, "</blockquote>")
	}
	return strings.Join(out, "\n")
}
