package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const origin = "http://pad.example"

const rewrittenBase = "http://pad.example/api/square/from-image-url?img=http%3A%2F%2Fx%2Fa.jpg"

func TestRewriteReplacesOnlyImageLinkElements(t *testing.T) {
	r := NewRewriter()

	doc := `<title>Foo &amp; Bar</title><g:image_link>http://x/a.jpg</g:image_link>`
	want := `<title>Foo &amp; Bar</title><g:image_link>` + rewrittenBase + `</g:image_link>`

	assert.Equal(t, want, r.Rewrite(doc, origin, PassThrough{}))
}

func TestRewriteHandlesBothTagKinds(t *testing.T) {
	r := NewRewriter()

	doc := `<item>
<g:image_link>http://x/a.jpg</g:image_link>
<g:additional_image_link>http://x/b.jpg</g:additional_image_link>
</item>`

	got := r.Rewrite(doc, origin, PassThrough{})

	assert.Contains(t, got, `<g:image_link>`+rewrittenBase+`</g:image_link>`)
	assert.Contains(t, got,
		`<g:additional_image_link>http://pad.example/api/square/from-image-url?img=http%3A%2F%2Fx%2Fb.jpg</g:additional_image_link>`)
	assert.True(t, strings.HasPrefix(got, "<item>\n"))
	assert.True(t, strings.HasSuffix(got, "\n</item>"))
}

func TestRewritePreservesCDATA(t *testing.T) {
	r := NewRewriter()

	doc := `<g:image_link><![CDATA[http://x/a.jpg]]></g:image_link>`
	want := `<g:image_link><![CDATA[` + rewrittenBase + `]]></g:image_link>`

	assert.Equal(t, want, r.Rewrite(doc, origin, PassThrough{}))
}

func TestRewritePreservesSurroundingWhitespace(t *testing.T) {
	r := NewRewriter()

	doc := "<g:image_link>\n    http://x/a.jpg\n  </g:image_link>"
	want := "<g:image_link>\n    " + rewrittenBase + "\n  </g:image_link>"

	assert.Equal(t, want, r.Rewrite(doc, origin, PassThrough{}))
}

func TestRewriteLeavesUnusableContentUntouched(t *testing.T) {
	r := NewRewriter()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty element", doc: `<g:image_link></g:image_link>`},
		{name: "whitespace only", doc: "<g:image_link>\n  \n</g:image_link>"},
		{name: "empty cdata", doc: `<g:image_link><![CDATA[]]></g:image_link>`},
		{name: "relative url", doc: `<g:image_link>/media/a.jpg</g:image_link>`},
		{name: "not a url", doc: `<g:image_link>http://bad url/a.jpg</g:image_link>`},
		{name: "unpaired tags", doc: `<g:image_link>http://x/a.jpg</g:additional_image_link>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.doc, r.Rewrite(tc.doc, origin, PassThrough{}))
		})
	}
}

func TestRewriteMatchesTagsCaseInsensitively(t *testing.T) {
	r := NewRewriter()

	doc := `<G:Image_Link>http://x/a.jpg</G:IMAGE_LINK>`
	want := `<G:Image_Link>` + rewrittenBase + `</G:IMAGE_LINK>`

	assert.Equal(t, want, r.Rewrite(doc, origin, PassThrough{}))
}

func TestRewriteIgnoresLookalikeTagNames(t *testing.T) {
	r := NewRewriter()

	doc := `<g:image_link_backup>http://x/a.jpg</g:image_link_backup>`

	assert.Equal(t, doc, r.Rewrite(doc, origin, PassThrough{}))
}

func TestRewriteKeepsOpenTagAttributes(t *testing.T) {
	r := NewRewriter()

	doc := `<g:image_link xmlns:g="http://base.google.com/ns/1.0">http://x/a.jpg</g:image_link>`
	want := `<g:image_link xmlns:g="http://base.google.com/ns/1.0">` + rewrittenBase + `</g:image_link>`

	assert.Equal(t, want, r.Rewrite(doc, origin, PassThrough{}))
}

func TestRewriteForwardsTransformParams(t *testing.T) {
	r := NewRewriter()

	doc := `<g:image_link>http://x/a.jpg</g:image_link>`
	params := PassThrough{Size: "512", Background: "000000", Align: "top", Format: "webp"}

	want := `<g:image_link>` +
		`http://pad.example/api/square/from-image-url` +
		`?align=top&amp;bg=000000&amp;format=webp&amp;img=http%3A%2F%2Fx%2Fa.jpg&amp;size=512` +
		`</g:image_link>`

	assert.Equal(t, want, r.Rewrite(doc, origin, params))
}

func TestRewriteParamsInsideCDATAStayUnescaped(t *testing.T) {
	r := NewRewriter()

	doc := `<g:image_link><![CDATA[http://x/a.jpg]]></g:image_link>`
	got := r.Rewrite(doc, origin, PassThrough{Size: "512"})

	assert.Contains(t, got, "img=http%3A%2F%2Fx%2Fa.jpg&size=512")
	assert.NotContains(t, got, "&amp;")
}

func TestRewriteIsDeterministic(t *testing.T) {
	r := NewRewriter()

	doc := `<g:image_link>http://x/a.jpg</g:image_link><g:additional_image_link><![CDATA[ http://x/b.png ]]></g:additional_image_link>`
	params := PassThrough{Size: "256", Format: "avif"}

	assert.Equal(t, r.Rewrite(doc, origin, params), r.Rewrite(doc, origin, params))
}
