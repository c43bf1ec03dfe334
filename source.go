package lyricmap

import (
	"compress/bzip2"
	"compress/gzip"
	"context"
	"embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

//go:embed data/sample.csv
var sampleData embed.FS

const samplePath = "data/sample.csv"

// Source yields the raw tabular dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// httpClient is a shared HTTP client with reasonable timeouts.
var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// HTTPSource fetches the dataset over HTTP(S).
type HTTPSource struct {
	URL    string
	Client *http.Client // nil uses a shared client with a 30s timeout
}

func (s HTTPSource) String() string { return s.URL }

func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = httpClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", s.URL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", s.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP GET %s: status %d", s.URL, resp.StatusCode)
	}
	return resp.Body, nil
}

// FileSource reads the dataset from disk. A sibling "<Path>.bz2" or
// "<Path>.gz" is preferred over the plain file when present.
type FileSource struct {
	Path string
}

func (s FileSource) String() string { return s.Path }

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return openOptionallyCompressedFile(s.Path)
}

// readCloser pairs a decompressing reader with the underlying file.
type readCloser struct {
	io.Reader
	close func() error
}

func (rc readCloser) Close() error { return rc.close() }

func openOptionallyCompressedFile(file string) (io.ReadCloser, error) {
	if fh, err := os.Open(file + ".bz2"); err == nil {
		return readCloser{Reader: bzip2.NewReader(fh), close: fh.Close}, nil
	}
	if fh, err := os.Open(file + ".gz"); err == nil {
		zr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, fmt.Errorf("creating gzip reader for %s.gz: %w", file, err)
		}
		return readCloser{Reader: zr, close: func() error {
			zr.Close()
			return fh.Close()
		}}, nil
	}
	fh, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file, err)
	}
	return fh, nil
}

// SampleSource is the small dataset compiled into the binary.
type SampleSource struct{}

func (SampleSource) String() string { return "embedded:" + samplePath }

func (SampleSource) Open(context.Context) (io.ReadCloser, error) {
	return sampleData.Open(samplePath)
}
