package booru

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name   string
	images []Image
	err    error
	calls  int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Random(_ context.Context) (*Image, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	image := f.images[(f.calls-1)%len(f.images)]
	return &image, nil
}

func newTestFetcher(providers ...Provider) *Fetcher {
	f := NewFetcher(providers, nil)
	f.intn = func(n int) int { return 0 }
	return f
}

func TestFetchReturnsSafeImage(t *testing.T) {
	provider := &fakeProvider{
		name:   "safebooru",
		images: []Image{{URL: "https://example.com/1.jpg", Rating: "s"}},
	}

	image, err := newTestFetcher(provider).Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/1.jpg", image.URL)
}

func TestFetchRejectsUnsafeImagesUntilSafeOne(t *testing.T) {
	provider := &fakeProvider{
		name: "konachan",
		images: []Image{
			{URL: "https://example.com/lewd.jpg", Rating: "e"},
			{URL: "https://example.com/lewd2.jpg", Rating: "q"},
			{URL: "https://example.com/fine.jpg", Rating: "s"},
		},
	}

	image, err := newTestFetcher(provider).Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/fine.jpg", image.URL)
	assert.Equal(t, 3, provider.calls)
}

func TestFetchAcceptsUnsafeWhenNsfwAllowed(t *testing.T) {
	safe := &fakeProvider{
		name:   "konachan",
		images: []Image{{URL: "https://example.com/lewd.jpg", Rating: "e"}},
	}
	explicit := &fakeProvider{
		name:   "gelbooru",
		images: []Image{{URL: "https://example.com/explicit.jpg", Rating: "e"}},
	}

	image, err := newTestFetcher(safe, explicit).Fetch(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/lewd.jpg", image.URL)
}

func TestFetchSkipsExplicitProviderWhenNsfwOff(t *testing.T) {
	safe := &fakeProvider{
		name:   "konachan",
		images: []Image{{URL: "https://example.com/fine.jpg", Rating: "s"}},
	}
	explicit := &fakeProvider{
		name:   "gelbooru",
		images: []Image{{URL: "https://example.com/explicit.jpg", Rating: "e"}},
	}

	fetcher := newTestFetcher(safe, explicit)

	for i := 0; i < 5; i++ {
		image, err := fetcher.Fetch(context.Background(), false)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/fine.jpg", image.URL)
	}

	assert.Zero(t, explicit.calls)
}

func TestFetchGivesUpAfterAttemptBudget(t *testing.T) {
	provider := &fakeProvider{
		name:   "konachan",
		images: []Image{{URL: "https://example.com/lewd.jpg", Rating: "e"}},
	}

	_, err := newTestFetcher(provider).Fetch(context.Background(), false)
	require.ErrorIs(t, err, ErrLewdDetected)
	assert.Equal(t, maxAttempts, provider.calls)
}

func TestFetchSurvivesFailingProvider(t *testing.T) {
	fetcher := NewFetcher([]Provider{
		&fakeProvider{name: "konachan", err: errors.New("down")},
		&fakeProvider{name: "yandere", images: []Image{{URL: "https://example.com/ok.jpg", Rating: "s"}}},
	}, nil)

	calls := 0
	fetcher.intn = func(n int) int {
		calls++
		return (calls - 1) % n
	}

	image, err := fetcher.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/ok.jpg", image.URL)
}
