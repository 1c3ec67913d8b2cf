package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const (
	DefaultBaseUrl   = "https://pokeapi.co/api/v2"
	DefaultColorsUrl = BundleScheme + ":///assets/cores-dos-pokemons.json"
	// BundleScheme addresses files bundled with the binary, see WithBundle.
	BundleScheme = "bundle"
	ListLimit    = 151
)

var ErrInvalidName = errors.New("pokemon name must be a non-empty URL-safe token")

// StatusError is returned when a request completes with a non-2xx status.
type StatusError struct {
	Url        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.Url, e.StatusCode)
}

type Client struct {
	baseUrl   string
	colorsUrl string
	client    *http.Client
	bundle    fs.FS
	sugar     *zap.SugaredLogger
}

type Option func(*Client)

func WithBaseUrl(baseUrl string) Option {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

func WithColorsUrl(colorsUrl string) Option {
	return func(c *Client) {
		c.colorsUrl = colorsUrl
	}
}

// WithHTTPClient sends requests through client. When combined with WithBundle
// the bundle scheme is served in front of the client's transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithBundle makes files of bundle reachable through bundle:/// URLs, so local
// resources go through the same request path as remote ones.
func WithBundle(bundle fs.FS) Option {
	return func(c *Client) {
		c.bundle = bundle
	}
}

func NewClient(sugar *zap.SugaredLogger, opts ...Option) *Client {
	c := &Client{
		baseUrl:   DefaultBaseUrl,
		colorsUrl: DefaultColorsUrl,
		sugar:     sugar,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	if c.bundle != nil {
		client := *c.client
		next := client.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		client.Transport = &bundleTransport{bundle: http.NewFileTransportFS(c.bundle), next: next}
		c.client = &client
	}
	return c
}

type bundleTransport struct {
	bundle http.RoundTripper
	next   http.RoundTripper
}

func (t *bundleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme == BundleScheme {
		return t.bundle.RoundTrip(req)
	}
	return t.next.RoundTrip(req)
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return url.PathEscape(name) == name
}

func (c *Client) getAndDecode(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Url: url, StatusCode: resp.StatusCode}
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// ListPokemons fetches the first page of the catalog.
func (c *Client) ListPokemons(ctx context.Context) (*ListPage, error) {
	url := fmt.Sprintf("%s/pokemon?limit=%d&offset=%d", c.baseUrl, ListLimit, 0)
	c.sugar.Debugf("Fetching Pokemon list %s", url)
	var result ListPage
	if err := c.getAndDecode(ctx, url, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetPokemon(ctx context.Context, name string) (*PokemonDetail, error) {
	if !validName(name) {
		return nil, ErrInvalidName
	}
	url := fmt.Sprintf("%s/pokemon/%s", c.baseUrl, name)
	c.sugar.Debugf("Fetching Pokemon %s", url)
	var pokemon PokemonDetail
	if err := c.getAndDecode(ctx, url, &pokemon); err != nil {
		return nil, err
	}
	return &pokemon, nil
}

func (c *Client) GetColors(ctx context.Context) ([]PokemonColor, error) {
	c.sugar.Debugf("Fetching Pokemon colors %s", c.colorsUrl)
	var colors []PokemonColor
	if err := c.getAndDecode(ctx, c.colorsUrl, &colors); err != nil {
		return nil, err
	}
	return colors, nil
}
