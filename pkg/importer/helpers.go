package importer

import (
	"compress/gzip"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/nerprep/pkg/spans"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// downloadFile downloads url to dest with retries and timeout.
func downloadFile(ctx context.Context, url, dest string) error {
	client := &http.Client{Timeout: 10 * time.Minute}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			continue
		}

		f, err := os.Create(dest)
		if err != nil {
			resp.Body.Close()
			return fmt.Errorf("create file: %w", err)
		}

		_, copyErr := io.Copy(f, resp.Body)
		resp.Body.Close()
		closeErr := f.Close()

		if copyErr != nil {
			lastErr = copyErr
			continue
		}
		if closeErr != nil {
			return closeErr
		}
		return nil
	}
	return fmt.Errorf("download %s failed after 3 attempts: %w", url, lastErr)
}

func isRemote(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// fetchInput returns a local path for input, downloading it into a temp dir
// when it is a URL. cleanup removes anything that was downloaded.
func fetchInput(ctx context.Context, input string) (local string, cleanup func(), err error) {
	if !isRemote(input) {
		return input, func() {}, nil
	}
	u, err := url.Parse(input)
	if err != nil {
		return "", nil, fmt.Errorf("parse input url: %w", err)
	}
	dir, err := os.MkdirTemp("", "nerprep-download-")
	if err != nil {
		return "", nil, fmt.Errorf("create download dir: %w", err)
	}
	cleanup = func() { os.RemoveAll(dir) }

	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "input"
	}
	dest := filepath.Join(dir, name)
	if err := downloadFile(ctx, input, dest); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("download: %w", err)
	}
	return dest, cleanup, nil
}

// decodedReader wraps r so that it yields UTF-8 for the given encoding.
func decodedReader(r io.Reader, enc string) (io.Reader, error) {
	if isUTF8(enc) {
		return r, nil
	}
	e, err := htmlindex.Get(enc)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
	}
	return transform.NewReader(r, e.NewDecoder()), nil
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}

// writeTable writes rows to dir/name and returns the full path.
func writeTable(dir, name string, rows []spans.Row, opts spans.CSVOptions) (string, error) {
	if err := ensureDir(dir); err != nil {
		return "", err
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", p, err)
	}
	if err := spans.WriteCSV(f, rows, opts); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	return p, f.Close()
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

type readCloser struct {
	io.Reader
	io.Closer
}

// openInput opens path, decompressing .xz and .gz files on the fly.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xz"):
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz %s: %w", path, err)
		}
		return readCloser{xr, f}, nil
	case strings.HasSuffix(lower, ".gz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return readCloser{gr, f}, nil
	}
	return f, nil
}

// baseFormat strips a compression suffix so the inner format can be matched.
func baseFormat(path string) string {
	lower := strings.ToLower(path)
	for _, ext := range []string{".xz", ".gz"} {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}

// fileChecksum returns the hex BLAKE3 digest of the file at path.
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
