// Package booru fetches random images from imageboard APIs.
package booru

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// Image is a single imageboard post.
type Image struct {
	URL    string
	Rating string
}

// Safe reports whether the image is rated safe for work.
func (i Image) Safe() bool {
	switch i.Rating {
	case "s", "safe", "g", "general":
		return true
	default:
		return false
	}
}

// Provider serves random images from one imageboard.
type Provider interface {
	Name() string
	Random(ctx context.Context) (*Image, error)
}

// Providers returns the full provider set. The last entry serves explicit
// content and must only be offered when NSFW mode is on.
func Providers(httpClient *http.Client) []Provider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return []Provider{
		&moebooru{name: "konachan", base: "https://konachan.net", client: httpClient, rng: rng},
		&moebooru{name: "yandere", base: "https://yande.re", client: httpClient, rng: rng},
		&moebooru{name: "sakugabooru", base: "https://www.sakugabooru.com", client: httpClient, rng: rng},
		&danbooru{client: httpClient},
		&gelbooru{name: "safebooru", base: "https://safebooru.org", client: httpClient, rng: rng},
		&gelbooru{name: "gelbooru", base: "https://gelbooru.com", client: httpClient, rng: rng},
	}
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("booru: build request: %w", err)
	}

	req.Header.Set("User-Agent", "owobot/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("booru: request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("booru: %s returned %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("booru: decode %s: %w", url, err)
	}

	return nil
}

// moebooru covers Konachan, yande.re and Sakugabooru, which share the
// post.json listing API.
type moebooru struct {
	name   string
	base   string
	client *http.Client
	rng    *rand.Rand
}

func (p *moebooru) Name() string { return p.name }

func (p *moebooru) Random(ctx context.Context) (*Image, error) {
	page := p.rng.Intn(50) + 1
	url := fmt.Sprintf("%s/post.json?limit=100&page=%d", p.base, page)

	var posts []struct {
		FileURL string `json:"file_url"`
		Rating  string `json:"rating"`
	}
	if err := getJSON(ctx, p.client, url, &posts); err != nil {
		return nil, err
	}

	if len(posts) == 0 {
		return nil, fmt.Errorf("booru: %s returned no posts", p.name)
	}

	post := posts[p.rng.Intn(len(posts))]
	return &Image{URL: post.FileURL, Rating: post.Rating}, nil
}

// danbooru uses the dedicated random post endpoint.
type danbooru struct {
	client *http.Client
}

func (p *danbooru) Name() string { return "danbooru" }

func (p *danbooru) Random(ctx context.Context) (*Image, error) {
	var post struct {
		FileURL string `json:"file_url"`
		Rating  string `json:"rating"`
	}
	if err := getJSON(ctx, p.client, "https://danbooru.donmai.us/posts/random.json", &post); err != nil {
		return nil, err
	}

	if post.FileURL == "" {
		return nil, fmt.Errorf("booru: danbooru returned no file url")
	}

	return &Image{URL: post.FileURL, Rating: post.Rating}, nil
}

// gelbooru covers Gelbooru and Safebooru through the dapi JSON endpoint.
type gelbooru struct {
	name   string
	base   string
	client *http.Client
	rng    *rand.Rand
}

func (p *gelbooru) Name() string { return p.name }

type gelbooruPost struct {
	FileURL   string `json:"file_url"`
	Directory string `json:"directory"`
	Image     string `json:"image"`
	Rating    string `json:"rating"`
}

func (p *gelbooru) Random(ctx context.Context) (*Image, error) {
	pid := p.rng.Intn(50)
	url := fmt.Sprintf("%s/index.php?page=dapi&s=post&q=index&json=1&limit=100&pid=%d", p.base, pid)

	var posts []gelbooruPost
	if err := getJSON(ctx, p.client, url, &posts); err != nil {
		// Gelbooru wraps the list in an envelope, Safebooru serves it bare.
		var envelope struct {
			Post []gelbooruPost `json:"post"`
		}
		if envErr := getJSON(ctx, p.client, url, &envelope); envErr != nil {
			return nil, err
		}
		posts = envelope.Post
	}

	if len(posts) == 0 {
		return nil, fmt.Errorf("booru: %s returned no posts", p.name)
	}

	post := posts[p.rng.Intn(len(posts))]

	fileURL := post.FileURL
	if fileURL == "" {
		fileURL = fmt.Sprintf("%s/images/%s/%s", p.base, post.Directory, post.Image)
	}

	return &Image{URL: fileURL, Rating: post.Rating}, nil
}
