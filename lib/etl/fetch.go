package etl

import (
	"context"
	"time"

	"scrape-etl/lib/restyutil"

	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrape-etl/lib/etl")

type FetcherOptions struct {
	// Timeout of zero means no timeout.
	Timeout   time.Duration
	UserAgent string
	// when set, every request/response pair is written to this directory
	DumpDir string
}

// Fetcher retrieves HTML documents. It never retries.
type Fetcher struct {
	client *resty.Client
}

func NewFetcher(opts FetcherOptions) (*Fetcher, error) {
	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	var output restyutil.InstrumentOutput
	if opts.DumpDir != "" {
		fsout, err := restyutil.NewFilesystemOutput(opts.DumpDir)
		if err != nil {
			return nil, errors.Wrap(err, "create dump dir")
		}
		output = fsout
	}
	restyutil.InstrumentClient(client, tracer, output)

	return &Fetcher{client: client}, nil
}

// Fetch performs one GET and returns the body. Transport failures and
// non-2xx statuses are ErrNetwork errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "GET %s", url), ErrNetwork)
	}
	if !res.IsSuccess() {
		err := errors.Newf("GET %s: unexpected status %d", url, res.StatusCode())
		err = errors.WithDetail(err, restyutil.Summary(res))
		return "", errors.Mark(err, ErrNetwork)
	}
	return string(res.Body()), nil
}

// DocumentFetcher is anything that can return the body behind a URL.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchFunc adapts a plain function to the DocumentFetcher interface.
type FetchFunc func(ctx context.Context, url string) (string, error)

func (f FetchFunc) Fetch(ctx context.Context, url string) (string, error) { return f(ctx, url) }
