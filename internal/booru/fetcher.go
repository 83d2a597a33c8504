package booru

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/owobot-dev/owobot/pkg/metrics"
)

// maxAttempts bounds rejection sampling when only safe images are acceptable.
const maxAttempts = 15

// ErrLewdDetected means sampling never produced a safe image within the
// attempt budget while the requester's NSFW mode is off.
var ErrLewdDetected = errors.New("no safe image found")

// Fetcher draws random images from a pool of imageboard providers.
type Fetcher struct {
	providers []Provider
	log       *slog.Logger
	intn      func(n int) int
}

// NewFetcher builds a fetcher over the provider pool. The final provider is
// treated as explicit-only and excluded while NSFW mode is off.
func NewFetcher(providers []Provider, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.Default()
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return &Fetcher{
		providers: providers,
		log:       log,
		intn:      rng.Intn,
	}
}

// Fetch returns a random image. With NSFW mode off the explicit provider is
// skipped and unsafe results are rejected and re-sampled.
func (f *Fetcher) Fetch(ctx context.Context, nsfwAllowed bool) (*Image, error) {
	pool := f.providers
	if !nsfwAllowed && len(pool) > 1 {
		pool = pool[:len(pool)-1]
	}

	if len(pool) == 0 {
		return nil, fmt.Errorf("booru: no providers configured")
	}

	started := time.Now()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		provider := pool[f.intn(len(pool))]

		image, err := provider.Random(ctx)
		if err != nil {
			f.log.Warn("booru provider failed",
				slog.String("provider", provider.Name()),
				slog.Any("error", err),
			)
			metrics.RecordFetchError(provider.Name(), "upstream")
			continue
		}

		if !nsfwAllowed && !image.Safe() {
			continue
		}

		metrics.RecordFetch(provider.Name(), time.Since(started))
		return image, nil
	}

	if !nsfwAllowed {
		return nil, ErrLewdDetected
	}

	return nil, fmt.Errorf("booru: all providers failed")
}
