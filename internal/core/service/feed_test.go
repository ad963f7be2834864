package service

import (
	"context"
	"testing"

	"squarepad/internal/core/domain"
	"squarepad/internal/core/feed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFeedSource struct {
	doc    string
	err    error
	gotURL string
}

func (m *mockFeedSource) FetchFeed(_ context.Context, url string) (string, error) {
	m.gotURL = url
	return m.doc, m.err
}

func TestFeedTransform(t *testing.T) {
	ms := &mockFeedSource{doc: `<channel><g:image_link>http://x/a.jpg</g:image_link></channel>`}

	got, err := NewFeed(ms, feed.NewRewriter()).Transform(t.Context(),
		"http://shop.example/feed.xml", "http://pad.example", feed.PassThrough{Size: "512"})
	require.NoError(t, err)

	assert.Equal(t, "http://shop.example/feed.xml", ms.gotURL)
	assert.Contains(t, got,
		"http://pad.example/api/square/from-image-url?img=http%3A%2F%2Fx%2Fa.jpg&amp;size=512")
	assert.Contains(t, got, "<channel>")
}

func TestFeedTransformSourceFailureIsFatal(t *testing.T) {
	ms := &mockFeedSource{err: domain.ErrSourceUnreachable}

	_, err := NewFeed(ms, feed.NewRewriter()).Transform(t.Context(),
		"http://shop.example/feed.xml", "http://pad.example", feed.PassThrough{})

	require.ErrorIs(t, err, domain.ErrSourceUnreachable)
}
