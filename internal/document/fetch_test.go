package document

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetcherDownload(t *testing.T) {
	payload := []byte("%PDF-1.4 fake content")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	got, err := f.Download(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Download() failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Download() = %q, want %q", got, payload)
	}
}

func TestFetcherDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	_, err := f.Download(context.Background(), srv.URL)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Download() = %v, want ErrTransport", err)
	}
}

func TestFetcherDownloadTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		srv.Close()
	}()

	f := NewFetcher(50 * time.Millisecond)
	_, err := f.Download(context.Background(), srv.URL)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Download() = %v, want ErrTransport", err)
	}
}

func TestFetcherDownloadBadURL(t *testing.T) {
	f := NewFetcher(time.Second)
	_, err := f.Download(context.Background(), "http://127.0.0.1:1/nothing.pdf")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Download() = %v, want ErrTransport", err)
	}
}
