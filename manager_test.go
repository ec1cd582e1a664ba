package models

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// newTestManager builds a manager over a temp assets dir with an injected
// catalog, so tests can point model URLs at local test servers.
func newTestManager(t *testing.T, catalog []Model) (*manager, string) {
	t.Helper()
	t.Setenv(envVarName("forma"), "")

	dir := t.TempDir()
	s, err := newStorage(Config{AppName: "forma", AssetsDir: dir})
	if err != nil {
		t.Fatalf("newStorage() error = %v", err)
	}

	return &manager{
		cfg:        Config{AppName: "forma", AssetsDir: dir},
		httpClient: http.DefaultClient,
		storage:    s,
		client:     newFetchClient(http.DefaultClient, nil),
		catalog:    catalog,
	}, dir
}

func testModel(url string) Model {
	return Model{
		Name:     "pose-landmark-lite",
		FileName: "pose_landmark_lite.tflite",
		Format:   "tflite",
		URL:      url,
	}
}

func TestNewManager(t *testing.T) {
	t.Run("requires app name", func(t *testing.T) {
		_, err := NewManager(Config{})
		if err == nil {
			t.Fatal("NewManager() with empty AppName should fail")
		}
	})

	t.Run("creates manager with compiled-in catalog", func(t *testing.T) {
		t.Setenv(envVarName("forma"), "")
		mgr, err := NewManager(Config{AppName: "forma", AssetsDir: t.TempDir()})
		if err != nil {
			t.Fatalf("NewManager() error = %v", err)
		}
		if len(mgr.Catalog()) != len(Catalog()) {
			t.Errorf("manager catalog has %d entries, want %d", len(mgr.Catalog()), len(Catalog()))
		}
	})
}

func TestManagerResolve(t *testing.T) {
	mgr, dir := newTestManager(t, []Model{testModel("https://example.invalid/model.tflite")})

	t.Run("known model", func(t *testing.T) {
		entry, dest, err := mgr.Resolve("pose-landmark-lite")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if entry.FileName != "pose_landmark_lite.tflite" {
			t.Errorf("FileName = %q", entry.FileName)
		}
		want := filepath.Join(dir, "pose_landmark_lite.tflite")
		if dest != want {
			t.Errorf("dest = %q, want %q", dest, want)
		}
		if !filepath.IsAbs(dest) {
			t.Errorf("dest %q is not absolute", dest)
		}
	})

	t.Run("unknown model", func(t *testing.T) {
		_, _, err := mgr.Resolve("nope")
		if !errors.Is(err, ErrUnknownModel) {
			t.Errorf("Resolve() error = %v, want ErrUnknownModel", err)
		}
	})
}

func TestManagerFetch(t *testing.T) {
	payload := bytes.Repeat([]byte("pose"), 2048)

	newPayloadServer := func(t *testing.T, body []byte) *httptest.Server {
		t.Helper()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Length", fmt.Sprint(len(body)))
			w.Write(body)
		}))
		t.Cleanup(server.Close)
		return server
	}

	t.Run("downloads model to assets dir", func(t *testing.T) {
		server := newPayloadServer(t, payload)
		mgr, dir := newTestManager(t, []Model{testModel(server.URL + "/pose_landmark_lite.tflite")})

		installed, err := mgr.Fetch(context.Background(), "pose-landmark-lite")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}

		if installed.Size != int64(len(payload)) {
			t.Errorf("Size = %d, want %d", installed.Size, len(payload))
		}
		wantPath := filepath.Join(dir, "pose_landmark_lite.tflite")
		if installed.Path != wantPath {
			t.Errorf("Path = %q, want %q", installed.Path, wantPath)
		}

		data, err := os.ReadFile(wantPath)
		if err != nil {
			t.Fatalf("reading fetched file: %v", err)
		}
		if !bytes.Equal(data, payload) {
			t.Errorf("fetched file content does not match payload")
		}
	})

	t.Run("reports progress through to completion", func(t *testing.T) {
		server := newPayloadServer(t, payload)
		mgr, _ := newTestManager(t, []Model{testModel(server.URL + "/m.tflite")})

		var updates []FetchProgress
		_, err := mgr.Fetch(context.Background(), "pose-landmark-lite", WithProgress(func(p FetchProgress) {
			updates = append(updates, p)
		}))
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}

		if len(updates) == 0 {
			t.Fatal("no progress updates received")
		}
		last := updates[len(updates)-1]
		if last.BytesCompleted != int64(len(payload)) {
			t.Errorf("final BytesCompleted = %d, want %d", last.BytesCompleted, len(payload))
		}
		if last.Percent() != 100 {
			t.Errorf("final Percent() = %v, want 100", last.Percent())
		}
	})

	t.Run("overwrites a previously fetched file", func(t *testing.T) {
		first := bytes.Repeat([]byte("A"), 9000)
		second := bytes.Repeat([]byte("B"), 300)

		body := first
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(body)
		}))
		defer server.Close()

		mgr, dir := newTestManager(t, []Model{testModel(server.URL + "/m.tflite")})

		if _, err := mgr.Fetch(context.Background(), "pose-landmark-lite"); err != nil {
			t.Fatalf("first Fetch() error = %v", err)
		}

		body = second
		installed, err := mgr.Fetch(context.Background(), "pose-landmark-lite")
		if err != nil {
			t.Fatalf("second Fetch() error = %v", err)
		}

		if installed.Size != int64(len(second)) {
			t.Errorf("Size = %d, want %d (stale bytes left behind?)", installed.Size, len(second))
		}
		data, err := os.ReadFile(filepath.Join(dir, "pose_landmark_lite.tflite"))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, second) {
			t.Errorf("file content = %d bytes of %q..., want the second payload only", len(data), data[:1])
		}
	})

	t.Run("unknown model fails before any request", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))
		defer server.Close()

		mgr, _ := newTestManager(t, []Model{testModel(server.URL)})

		_, err := mgr.Fetch(context.Background(), "face-landmark")
		if !errors.Is(err, ErrUnknownModel) {
			t.Errorf("Fetch() error = %v, want ErrUnknownModel", err)
		}
		if requests != 0 {
			t.Errorf("server received %d requests, want 0", requests)
		}
	})

	t.Run("http error surfaces as network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		mgr, _ := newTestManager(t, []Model{testModel(server.URL + "/m.tflite")})

		_, err := mgr.Fetch(context.Background(), "pose-landmark-lite")
		if !errors.Is(err, ErrNetworkError) {
			t.Errorf("Fetch() error = %v, want ErrNetworkError", err)
		}
	})

	t.Run("unreachable server surfaces as network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		mgr, _ := newTestManager(t, []Model{testModel(url + "/m.tflite")})

		_, err := mgr.Fetch(context.Background(), "pose-landmark-lite")
		if !errors.Is(err, ErrNetworkError) {
			t.Errorf("Fetch() error = %v, want ErrNetworkError", err)
		}
	})
}

func TestManagerInstalled(t *testing.T) {
	payload := []byte("model payload")
	ctx := context.Background()

	fetchOne := func(t *testing.T) (*manager, string) {
		t.Helper()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(payload)
		}))
		t.Cleanup(server.Close)

		mgr, dir := newTestManager(t, []Model{testModel(server.URL + "/m.tflite")})
		if _, err := mgr.Fetch(ctx, "pose-landmark-lite"); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		return mgr, dir
	}

	t.Run("ListInstalled is empty before fetching", func(t *testing.T) {
		mgr, _ := newTestManager(t, []Model{testModel("https://example.invalid/m.tflite")})
		installed, err := mgr.ListInstalled(ctx)
		if err != nil {
			t.Fatalf("ListInstalled() error = %v", err)
		}
		if len(installed) != 0 {
			t.Errorf("ListInstalled() returned %d models, want 0", len(installed))
		}
	})

	t.Run("ListInstalled includes fetched models", func(t *testing.T) {
		mgr, _ := fetchOne(t)
		installed, err := mgr.ListInstalled(ctx)
		if err != nil {
			t.Fatalf("ListInstalled() error = %v", err)
		}
		if len(installed) != 1 {
			t.Fatalf("ListInstalled() returned %d models, want 1", len(installed))
		}
		if installed[0].Size != int64(len(payload)) {
			t.Errorf("Size = %d, want %d", installed[0].Size, len(payload))
		}
	})

	t.Run("GetInstalled before fetch returns ErrNotFetched", func(t *testing.T) {
		mgr, _ := newTestManager(t, []Model{testModel("https://example.invalid/m.tflite")})
		_, err := mgr.GetInstalled(ctx, "pose-landmark-lite")
		if !errors.Is(err, ErrNotFetched) {
			t.Errorf("GetInstalled() error = %v, want ErrNotFetched", err)
		}
	})

	t.Run("Path returns the fetched file location", func(t *testing.T) {
		mgr, dir := fetchOne(t)
		path, err := mgr.Path(ctx, "pose-landmark-lite")
		if err != nil {
			t.Fatalf("Path() error = %v", err)
		}
		if want := filepath.Join(dir, "pose_landmark_lite.tflite"); path != want {
			t.Errorf("Path() = %q, want %q", path, want)
		}
	})

	t.Run("Remove deletes the file", func(t *testing.T) {
		mgr, dir := fetchOne(t)
		if err := mgr.Remove(ctx, "pose-landmark-lite"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "pose_landmark_lite.tflite")); !os.IsNotExist(err) {
			t.Error("model file still present after Remove")
		}
		if err := mgr.Remove(ctx, "pose-landmark-lite"); !errors.Is(err, ErrNotFetched) {
			t.Errorf("second Remove() error = %v, want ErrNotFetched", err)
		}
	})
}
