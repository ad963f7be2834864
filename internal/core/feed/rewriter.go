package feed

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

const squareEndpointPath = "/api/square/from-image-url"

// The two element names carrying image references in a product feed. Neither
// name is a prefix of the other, but they share the "image_link" suffix, so
// open and close tags must always be paired by the full tag name.
var linkTags = [...]string{"g:image_link", "g:additional_image_link"}

// PassThrough holds the raw transform parameters forwarded onto every
// rewritten link. Empty values are omitted from the built URL.
type PassThrough struct {
	Size       string
	Background string
	Align      string
	Format     string
}

// Rewriter replaces the text content of feed image-link elements with URLs
// pointing at the square transformation endpoint. It operates on the raw
// document text in a single pass, leaving every untouched byte exactly as it
// was; it is deliberately not an XML parser.
type Rewriter struct{}

func NewRewriter() *Rewriter {
	return &Rewriter{}
}

// Rewrite scans the document for image-link elements and swaps their inner
// text for transformation URLs rooted at origin. Elements whose content is
// empty or cannot be turned into a URL are left as they are; the rest of the
// document passes through byte-for-byte.
func (r *Rewriter) Rewrite(doc, origin string, params PassThrough) string {
	lower := strings.ToLower(doc)

	var b strings.Builder
	b.Grow(len(doc) + len(doc)/4)

	pos := 0
	for pos < len(doc) {
		lt := strings.IndexByte(doc[pos:], '<')
		if lt < 0 {
			b.WriteString(doc[pos:])
			return b.String()
		}
		lt += pos
		b.WriteString(doc[pos:lt])

		tag, innerStart := matchOpenTag(lower, lt)
		if tag == "" {
			b.WriteByte('<')
			pos = lt + 1
			continue
		}

		innerEnd, closeEnd := findCloseTag(lower, innerStart, tag)
		if innerEnd < 0 {
			b.WriteByte('<')
			pos = lt + 1
			continue
		}

		b.WriteString(doc[lt:innerStart])
		b.WriteString(rewriteContent(doc[innerStart:innerEnd], origin, params))
		b.WriteString(doc[innerEnd:closeEnd])
		pos = closeEnd
	}

	return b.String()
}

// matchOpenTag checks whether the '<' at position lt opens one of the link
// tags. It returns the matched tag name and the index just past the '>'.
// Self-closing tags and lookalike names with a longer suffix do not match.
func matchOpenTag(lower string, lt int) (string, int) {
	for _, tag := range linkTags {
		rest := lower[lt+1:]
		if !strings.HasPrefix(rest, tag) {
			continue
		}

		after := lt + 1 + len(tag)
		if after >= len(lower) {
			continue
		}

		switch lower[after] {
		case '>':
			return tag, after + 1
		case ' ', '\t', '\r', '\n':
			gt := strings.IndexByte(lower[after:], '>')
			if gt < 0 {
				continue
			}
			end := after + gt
			if strings.IndexByte(lower[after:end], '<') >= 0 || lower[end-1] == '/' {
				continue
			}
			return tag, end + 1
		}
	}

	return "", 0
}

// findCloseTag locates the nearest close tag for exactly the given tag name.
// It returns the index where the inner content ends and the index just past
// the closing '>'.
func findCloseTag(lower string, from int, tag string) (int, int) {
	needle := "</" + tag

	for search := from; ; {
		i := strings.Index(lower[search:], needle)
		if i < 0 {
			return -1, -1
		}
		i += search

		k := i + len(needle)
		for k < len(lower) && isSpaceByte(lower[k]) {
			k++
		}
		if k < len(lower) && lower[k] == '>' {
			return i, k + 1
		}

		search = i + 1
	}
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// rewriteContent replaces the element's inner text with a transformation
// URL, preserving surrounding whitespace and any CDATA wrapping. On any
// failure the original content is returned untouched.
func rewriteContent(content, origin string, params PassThrough) string {
	inner := strings.TrimLeftFunc(content, unicode.IsSpace)
	lead := content[:len(content)-len(inner)]
	body := strings.TrimRightFunc(inner, unicode.IsSpace)
	trail := inner[len(body):]

	if body == "" {
		return content
	}

	raw := body
	useCData := false
	if strings.HasPrefix(raw, "<![CDATA[") && strings.HasSuffix(raw, "]]>") {
		raw = raw[len("<![CDATA[") : len(raw)-len("]]>")]
		useCData = true
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return content
	}

	built, err := buildSquareURL(origin, raw, params)
	if err != nil {
		return content
	}

	if useCData {
		return lead + "<![CDATA[" + built + "]]>" + trail
	}
	return lead + escapeXML(built) + trail
}

func buildSquareURL(origin, imageURL string, params PassThrough) (string, error) {
	src, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("parsing image url: %w", err)
	}
	if !src.IsAbs() || src.Host == "" {
		return "", fmt.Errorf("image url is not absolute: %s", imageURL)
	}

	base, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("parsing origin: %w", err)
	}

	base.Path = squareEndpointPath
	base.Fragment = ""

	query := url.Values{}
	query.Set("img", imageURL)
	if params.Size != "" {
		query.Set("size", params.Size)
	}
	if params.Background != "" {
		query.Set("bg", params.Background)
	}
	if params.Align != "" {
		query.Set("align", params.Align)
	}
	if params.Format != "" {
		query.Set("format", params.Format)
	}
	base.RawQuery = query.Encode()

	return base.String(), nil
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(value string) string {
	return xmlEscaper.Replace(value)
}
