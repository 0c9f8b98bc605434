package render

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"mvdan.cc/xurls/v2"
)

const (
	videoIDPrefix = "video-"
	week          = 7 * 24 * time.Hour
)

//nolint:gochecknoglobals // compiled once, read-only
var strictURLs = xurls.Strict()

// FormatNumber abbreviates counts: 1.2M, 1.5K, or the integer as is.
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000:
		return abbreviate(n, 1_000_000) + "M"
	case n >= 1_000:
		return abbreviate(n, 1_000) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// abbreviate renders n/unit with one decimal, rounding to the nearest tenth
// of the float quotient and exact halves up.
func abbreviate(n, unit int64) string {
	// n/unit lands exactly on a half tenth only when n%(unit/2) == unit/4.
	if n%(unit/2) != unit/4 {
		return strconv.FormatFloat(float64(n)/float64(unit), 'f', 1, 64)
	}

	tenths := n/(unit/10) + 1

	return strconv.FormatInt(tenths/10, 10) + "." + strconv.FormatInt(tenths%10, 10)
}

// FormatTime renders t relative to now. Anything older than a week falls back
// to M/D/YYYY.
func FormatTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh", int(diff/time.Hour))
	case diff < week:
		return fmt.Sprintf("%dd", int(diff/(24*time.Hour)))
	default:
		local := t.In(now.Location())
		return fmt.Sprintf("%d/%d/%d", int(local.Month()), local.Day(), local.Year())
	}
}

func VideoElementID(postID string) string {
	return videoIDPrefix + postID
}

// FirstName returns the first whitespace-separated word of name.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// Linkify escapes content and wraps every absolute URL in an anchor.
func Linkify(content string) template.HTML {
	matches := strictURLs.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return template.HTML(template.HTMLEscapeString(content)) //nolint:gosec // escaped above
	}

	var b strings.Builder
	b.Grow(len(content) + len(matches)*48)

	last := 0
	for _, m := range matches {
		if !linkable(content[m[0]:m[1]]) {
			continue
		}

		b.WriteString(template.HTMLEscapeString(content[last:m[0]]))

		link := template.HTMLEscapeString(content[m[0]:m[1]])
		b.WriteString(`<a href="`)
		b.WriteString(link)
		b.WriteString(`" target="_blank" rel="noopener noreferrer">`)
		b.WriteString(link)
		b.WriteString(`</a>`)

		last = m[1]
	}
	b.WriteString(template.HTMLEscapeString(content[last:]))

	return template.HTML(b.String()) //nolint:gosec // every segment is escaped
}

func linkable(link string) bool {
	lower := strings.ToLower(link)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
