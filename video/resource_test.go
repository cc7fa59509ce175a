package video

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, TestPattern(w, h, 0)))
	return buf.Bytes()
}

func TestOpenResource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.txt")
	require.NoError(t, os.WriteFile(path, []byte("local"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("remote"))
	}))
	defer srv.Close()

	type spec struct {
		location  string
		expData   string
		expRemote bool
		expErr    string
	}
	specs := []spec{
		{path, "local", false, ""},
		{"file://" + filepath.ToSlash(path), "local", false, ""},
		{srv.URL + "/snapshot.jpg", "remote", true, ""},
		{srv.URL + "/missing", "", false, "status 404"},
		{"ftp://example.com/a.png", "", false, "unsupported scheme"},
		{filepath.Join(t.TempDir(), "nope"), "", false, "no such file"},
	}

	for specIndex, spec := range specs {
		res, err := OpenResource(context.Background(), spec.location, srv.Client())
		if spec.expErr != "" {
			if err == nil || !bytes.Contains([]byte(err.Error()), []byte(spec.expErr)) {
				t.Fatalf("[spec %d] expected error containing %q; got %v", specIndex, spec.expErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] %s", specIndex, err)
		}
		data, err := io.ReadAll(res)
		res.Close()
		if err != nil {
			t.Fatalf("[spec %d] %s", specIndex, err)
		}
		if string(data) != spec.expData {
			t.Fatalf("[spec %d] expected %q; got %q", specIndex, spec.expData, data)
		}
		if res.IsRemote() != spec.expRemote {
			t.Fatalf("[spec %d] expected IsRemote to be %t", specIndex, spec.expRemote)
		}
	}
}

func TestSnapshotPublishesFrames(t *testing.T) {
	frame := pngBytes(t, 32, 16)
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Every other poll fails.
		if requests.Add(1)%2 == 0 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(frame)
	}))
	defer srv.Close()

	snap := NewSnapshot(srv.URL+"/snapshot.png", 100, 16, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- snap.Run(ctx) }()

	require.Eventually(t, func() bool {
		return snap.Stats().Published >= 2 && snap.Failures() >= 1
	}, 5*time.Second, 10*time.Millisecond)

	img, ok := snap.Frame()
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
