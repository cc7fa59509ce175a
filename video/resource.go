package video

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Resource is a readable stream for a local file or an http(s) URL.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Path returns the location the resource was opened from.
func (r *Resource) Path() string {
	return r.url.String()
}

// IsRemote returns true if the resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme == "http" || r.url.Scheme == "https"
}

// OpenResource opens location, which is either a file path or an http(s)
// URL. Remote resources are fetched with client, or http.DefaultClient when
// client is nil. The caller must close the returned resource.
func OpenResource(ctx context.Context, location string, client *http.Client) (*Resource, error) {
	// Windows paths parse as URLs once their separators are normalized.
	u, err := url.Parse(strings.ReplaceAll(location, `\`, `/`))
	if err != nil {
		return nil, fmt.Errorf("video: invalid location %q: %w", location, err)
	}

	// A single letter scheme is a drive letter.
	if len(u.Scheme) == 1 {
		u = &url.URL{Path: location}
	}

	var reader io.ReadCloser
	switch u.Scheme {
	case "", "file":
		reader, err = os.Open(filepath.Clean(u.Path))
		if err != nil {
			return nil, fmt.Errorf("video: %w", err)
		}
	case "http", "https":
		if client == nil {
			client = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("video: could not fetch '%s': %w", u.String(), err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("video: could not fetch '%s': %w", u.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("video: could not fetch '%s': status %d", u.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("video: unsupported scheme '%s'", u.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        u,
	}, nil
}
