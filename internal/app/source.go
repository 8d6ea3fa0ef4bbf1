package app

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/hyperifyio/achievascrape/internal/fetch"
)

// snapshot is the raw page as acquired, before parsing.
type snapshot struct {
	Body        []byte
	ContentType string
	Source      string
}

// loadSnapshot reads the page from stdin, an http(s) URL or a file.
func (a *App) loadSnapshot(ctx context.Context) (snapshot, error) {
	in := strings.TrimSpace(a.cfg.InputPath)
	switch {
	case in == "-":
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return snapshot{}, fmt.Errorf("read stdin: %w", err)
		}
		return snapshot{Body: b, ContentType: a.cfg.ContentType, Source: "stdin"}, nil
	case isURL(in):
		c := &fetch.Client{HTTPClient: newPageHTTPClient(a.cfg.Timeout), UserAgent: a.cfg.UserAgent, Timeout: a.cfg.Timeout}
		b, ct, err := c.Get(ctx, in)
		if err != nil {
			return snapshot{}, fmt.Errorf("fetch %s: %w", in, err)
		}
		return snapshot{Body: b, ContentType: ct, Source: in}, nil
	default:
		b, err := os.ReadFile(in)
		if err != nil {
			return snapshot{}, fmt.Errorf("read input: %w", err)
		}
		return snapshot{Body: b, ContentType: a.cfg.ContentType, Source: in}, nil
	}
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Host != "" && fetch.IsHTTPURL(u)
}
