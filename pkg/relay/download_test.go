package relay

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDownloadSavesExplicitName(t *testing.T) {
	blob := []byte("col1,col2\n1,2\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(blob)
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := newTestClient(srv.URL, WithSaver(DirSaver{Dir: dir}))
	saved, err := client.Download(context.Background(), "/export", nil, "report.csv")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if saved != filepath.Join(dir, "report.csv") {
		t.Fatalf("saved path = %q", saved)
	}
	got, err := os.ReadFile(saved)
	if err != nil || !bytes.Equal(got, blob) {
		t.Fatalf("saved content mismatch: %q err=%v", got, err)
	}
}

func TestDownloadUsesContentDispositionName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="export-2024.csv"`)
		io.WriteString(w, "data")
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := newTestClient(srv.URL, WithSaver(DirSaver{Dir: dir}))
	saved, err := client.Download(context.Background(), "/export", nil, "")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(saved) != "export-2024.csv" {
		t.Fatalf("saved name = %q", filepath.Base(saved))
	}
}

func TestDownloadFallsBackToDefaultName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		io.WriteString(w, "data")
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := newTestClient(srv.URL, WithSaver(DirSaver{Dir: dir}))
	saved, err := client.Download(context.Background(), "/export", nil, "")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(saved) != DefaultFilename {
		t.Fatalf("saved name = %q", filepath.Base(saved))
	}
}

func TestDownloadEnvelopeFailureSavesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"code":500,"msg":"export failed"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	sink := &recordingSink{}
	client := newTestClient(srv.URL, WithSaver(DirSaver{Dir: dir}), WithSink(sink))
	_, err := client.Download(context.Background(), "/export", nil, "report.csv")
	var ce *CallError
	if !errors.As(err, &ce) || ce.Kind != KindAPI || ce.Msg != "export failed" {
		t.Fatalf("expected envelope failure, got %v", err)
	}
	if len(sink.all()) != 1 {
		t.Fatalf("expected 1 notice")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("no file should be saved, found %d entries", len(entries))
	}
}

func TestDownloadStatusFailureSavesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := newTestClient(srv.URL, WithSaver(DirSaver{Dir: dir}))
	_, err := client.Download(context.Background(), "/export", nil, "")
	var ce *CallError
	if !errors.As(err, &ce) || ce.Kind != KindStatus || ce.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status failure, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("no file should be saved, found %d entries", len(entries))
	}
}

func TestDirSaverStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	saver := DirSaver{Dir: dir}
	saved, err := saver.Save("../../escape.txt", []byte("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved != filepath.Join(dir, "escape.txt") {
		t.Fatalf("saved path escaped the directory: %q", saved)
	}
}

func TestDownloadNamePicksInOrder(t *testing.T) {
	if got := downloadName("report.csv", `attachment; filename="other.csv"`); got != "report.csv" {
		t.Fatalf("explicit name should win, got %q", got)
	}
	if got := downloadName("", `attachment; filename="/tmp/other.csv"`); got != "other.csv" {
		t.Fatalf("disposition name should be base-only, got %q", got)
	}
	if got := downloadName("", "not-a-disposition;;;"); got != DefaultFilename {
		t.Fatalf("unparsable disposition should fall back, got %q", got)
	}
	if got := downloadName("", ""); got != DefaultFilename {
		t.Fatalf("missing disposition should fall back, got %q", got)
	}
}

func TestDownloadAppliesCallHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Export"); got != "full" {
			t.Fatalf("X-Export = %q", got)
		}
		if got := r.URL.Query().Get("year"); got != "2024" {
			t.Fatalf("query year = %q", got)
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		io.WriteString(w, "data")
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := newTestClient(srv.URL, WithSaver(DirSaver{Dir: dir}))
	query := url.Values{"year": {"2024"}}
	if _, err := client.Download(context.Background(), "/export", query, "", WithHeader("X-Export", "full")); err != nil {
		t.Fatalf("Download: %v", err)
	}
}

func TestDownloadSaveFailureWraps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		io.WriteString(w, "data")
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, WithSaver(failingSaver{}))
	_, err := client.Download(context.Background(), "/export", nil, "x.bin")
	if err == nil || !strings.Contains(err.Error(), "save download") {
		t.Fatalf("expected save error, got %v", err)
	}
}

type failingSaver struct{}

func (failingSaver) Save(string, []byte) (string, error) {
	return "", errors.New("disk full")
}
