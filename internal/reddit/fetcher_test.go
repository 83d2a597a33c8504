package reddit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	posts []Post
	calls int
}

func (f *fakeLister) ListNew(_ context.Context, _ string, after string, limit int) ([]Post, string, error) {
	f.calls++

	start := 0
	if after != "" {
		for i, post := range f.posts {
			if post.Fullname == after {
				start = i + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(f.posts) {
		end = len(f.posts)
	}
	if start >= len(f.posts) {
		return nil, "", nil
	}

	batch := f.posts[start:end]

	next := ""
	if end < len(f.posts) {
		next = batch[len(batch)-1].Fullname
	}

	return batch, next, nil
}

func makePosts(n int, over18 map[int]bool) []Post {
	posts := make([]Post, n)
	for i := range posts {
		posts[i] = Post{
			Fullname: fmt.Sprintf("t3_%03d", i),
			Title:    fmt.Sprintf("post %d", i),
			URL:      fmt.Sprintf("https://example.com/%d.jpg", i),
			Over18:   over18[i],
		}
	}
	return posts
}

func newTestFetcher(lister Lister, target int) *Fetcher {
	f := NewFetcher(lister, nil)
	f.intn = func(int) int { return target }
	return f
}

func TestFetchLandsOnLastPostOfFinalPage(t *testing.T) {
	lister := &fakeLister{posts: makePosts(30, nil)}
	fetcher := newTestFetcher(lister, 28)

	post, err := fetcher.Fetch(context.Background(), "aww", false)
	require.NoError(t, err)

	assert.Equal(t, "t3_029", post.Fullname)
	assert.Equal(t, 2, lister.calls)
}

func TestFetchWalksBackPastNsfwPosts(t *testing.T) {
	lister := &fakeLister{posts: makePosts(30, map[int]bool{27: true, 28: true, 29: true})}
	fetcher := newTestFetcher(lister, 28)

	post, err := fetcher.Fetch(context.Background(), "aww", false)
	require.NoError(t, err)

	assert.Equal(t, "t3_026", post.Fullname)
}

func TestFetchKeepsNsfwPostWhenAllowed(t *testing.T) {
	lister := &fakeLister{posts: makePosts(30, map[int]bool{29: true})}
	fetcher := newTestFetcher(lister, 28)

	post, err := fetcher.Fetch(context.Background(), "aww", true)
	require.NoError(t, err)

	assert.Equal(t, "t3_029", post.Fullname)
}

func TestFetchFailsWhenOnlyNsfwRemains(t *testing.T) {
	over18 := make(map[int]bool)
	for i := 0; i < 10; i++ {
		over18[i] = true
	}

	lister := &fakeLister{posts: makePosts(10, over18)}
	fetcher := newTestFetcher(lister, 5)

	_, err := fetcher.Fetch(context.Background(), "aww", false)
	require.ErrorIs(t, err, ErrLewdDetected)
}

func TestFetchFailsOnEmptySubreddit(t *testing.T) {
	lister := &fakeLister{}
	fetcher := newTestFetcher(lister, 5)

	_, err := fetcher.Fetch(context.Background(), "ghosttown", false)
	require.ErrorIs(t, err, ErrNoPosts)
}

func TestFetchStopsAtListingEnd(t *testing.T) {
	lister := &fakeLister{posts: makePosts(8, nil)}
	fetcher := newTestFetcher(lister, 500)

	post, err := fetcher.Fetch(context.Background(), "aww", false)
	require.NoError(t, err)

	assert.Equal(t, "t3_007", post.Fullname)
	assert.Equal(t, 1, lister.calls)
}

type recordingLister struct {
	fakeLister
	subreddits []string
}

func (r *recordingLister) ListNew(ctx context.Context, subreddit, after string, limit int) ([]Post, string, error) {
	r.subreddits = append(r.subreddits, subreddit)
	return r.fakeLister.ListNew(ctx, subreddit, after, limit)
}

func TestFetchRandomPoolRespectsNsfwMode(t *testing.T) {
	lister := &recordingLister{fakeLister: fakeLister{posts: makePosts(1, nil)}}
	fetcher := NewFetcher(lister, nil)
	fetcher.intn = func(n int) int { return n - 1 }

	_, err := fetcher.FetchRandom(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, ExplicitSubreddits[len(ExplicitSubreddits)-1], lister.subreddits[0])

	_, err = fetcher.FetchRandom(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, ImplicitSubreddits[len(ImplicitSubreddits)-1], lister.subreddits[1])
}
