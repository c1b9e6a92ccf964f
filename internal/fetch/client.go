// Package fetch downloads season archives listed by the public nba_data
// index (one "name=url" line per archive) and extracts their CSV files.
package fetch

import (
	"archive/tar"
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
	"github.com/ulikunitz/xz"

	"github.com/pable/go-nba-efg/internal/model"
)

// Dataset kinds published per season.
const (
	KindPlayByPlay = "pbpstats"
	KindShotDetail = "shotdetail"
)

// Entry is one archive of the index.
type Entry struct {
	Name string
	URL  string
}

// Client fetches the index and archives with per-request timeouts and
// exponential-backoff retries.
type Client struct {
	indexURL   string
	http       *http.Client
	maxRetries int
	initial    time.Duration
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) Option { return func(c *Client) { c.maxRetries = n } }

// WithInitialBackOff sets the first retry delay.
func WithInitialBackOff(d time.Duration) Option { return func(c *Client) { c.initial = d } }

// WithLogger sets the logger used to report retries.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// NewClient returns a client reading the index at indexURL.
func NewClient(indexURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		indexURL:   indexURL,
		http:       &http.Client{Timeout: timeout},
		maxRetries: 3,
		initial:    500 * time.Millisecond,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ArchiveName returns the index name of a dataset kind for a season, e.g.
// "pbpstats_2022".
func ArchiveName(kind string, season model.Season) string {
	return fmt.Sprintf("%s_%d", kind, int(season))
}

// statusError is a non-200 response. 4xx responses are not retried.
type statusError struct {
	url  string
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("GET %s: HTTP %d", e.url, e.code) }

func (c *Client) retry(ctx context.Context, what string, op func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.initial
	var b backoff.BackOff = backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.maxRetries)), ctx)

	return backoff.RetryNotify(func() error {
		err := op()
		var se *statusError
		if errors.As(err, &se) && se.code >= 400 && se.code < 500 {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		c.log.Warn().Str("target", what).Dur("wait", wait).Err(err).Msg("retrying download")
	})
}

// get issues a GET and hands the body to consume. consume runs inside the
// retry loop, so a body cut off mid-stream is fetched again.
func (c *Client) get(ctx context.Context, url string, consume func(io.Reader) error) error {
	return c.retry(ctx, url, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("GET %s: %w", url, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return &statusError{url: url, code: resp.StatusCode}
		}
		return consume(resp.Body)
	})
}

// Index downloads and parses the archive index.
func (c *Client) Index(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := c.get(ctx, c.indexURL, func(r io.Reader) error {
		entries = entries[:0]
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			name, url, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			entries = append(entries, Entry{Name: strings.TrimSpace(name), URL: strings.TrimSpace(url)})
		}
		return sc.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("fetch index: %w", err)
	}
	return entries, nil
}

// Select returns the index entries named in want, in index order.
func Select(entries []Entry, want []string) []Entry {
	set := make(map[string]struct{}, len(want))
	for _, w := range want {
		set[w] = struct{}{}
	}
	var out []Entry
	for _, e := range entries {
		if _, ok := set[e.Name]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Download fetches e and writes <e.Name>.csv into dir, returning its path.
func (c *Client) Download(ctx context.Context, e Entry, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, e.Name+"-*.part")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	err = c.get(ctx, e.URL, func(r io.Reader) error {
		if _, err := tmp.Seek(0, io.SeekStart); err != nil {
			return backoff.Permanent(err)
		}
		if err := tmp.Truncate(0); err != nil {
			return backoff.Permanent(err)
		}
		_, err := io.Copy(tmp, r)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("download %s: %w", e.Name, err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	outPath := filepath.Join(dir, e.Name+".csv")
	if err := extract(tmp, e.URL, e.Name+".csv", outPath); err != nil {
		return "", fmt.Errorf("extract %s: %w", e.Name, err)
	}
	return outPath, nil
}

// decompressor picks a stream decoder from the archive URL suffix.
func decompressor(src io.Reader, url string) (io.Reader, func(), error) {
	noop := func() {}
	switch {
	case strings.HasSuffix(url, ".xz"):
		r, err := xz.NewReader(src)
		if err != nil {
			return nil, noop, fmt.Errorf("xz: %w", err)
		}
		return r, noop, nil
	case strings.HasSuffix(url, ".zst"):
		dec, err := zstd.NewReader(src)
		if err != nil {
			return nil, noop, fmt.Errorf("zstd: %w", err)
		}
		return dec, dec.Close, nil
	case strings.HasSuffix(url, ".gz") || strings.HasSuffix(url, ".tgz"):
		gz, err := gzip.NewReader(src)
		if err != nil {
			return nil, noop, fmt.Errorf("gzip: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	case strings.HasSuffix(url, ".bz2"):
		return bzip2.NewReader(src), noop, nil
	}
	return src, noop, nil
}

var compressionSuffixes = []string{".xz", ".zst", ".gz", ".bz2"}

func trimCompression(url string) string {
	for _, s := range compressionSuffixes {
		if strings.HasSuffix(url, s) {
			return strings.TrimSuffix(url, s)
		}
	}
	return url
}

// extract writes member (or the whole stream for a bare .csv URL) to outPath.
func extract(src io.Reader, url, member, outPath string) error {
	r, done, err := decompressor(src, url)
	if err != nil {
		return err
	}
	defer done()

	if strings.HasSuffix(trimCompression(url), ".csv") {
		return writeFile(outPath, r)
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s not found in archive", member)
		}
		if err != nil {
			return fmt.Errorf("tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && path.Base(hdr.Name) == member {
			return writeFile(outPath, tr)
		}
	}
}

func writeFile(p string, r io.Reader) error {
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return fmt.Errorf("write: %w", err)
	}
	return f.Close()
}
