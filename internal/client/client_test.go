package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"breeder/internal/logging"
	"breeder/internal/types"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		baseURL: server.URL,
		http: &http.Client{
			Timeout: 2 * time.Second,
		},
	}
}

func TestResetDecodesGenerationInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/reset/60/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":{"numGenerations":1,"currentGeneration":0,"numImages":60}}`))
	}))
	defer server.Close()

	info, err := newTestClient(server).Reset(context.Background(), 60)
	if err != nil {
		t.Fatalf("Reset error: %v", err)
	}
	want := types.GenerationInfo{NumGenerations: 1, CurrentGeneration: 0, NumImages: 60}
	if info != want {
		t.Fatalf("expected %+v, got %+v", want, info)
	}
}

func TestBreedPostsSelectionPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_, _ = w.Write([]byte(`{"response":{"numGenerations":4,"currentGeneration":3,"numImages":60}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).Breed(context.Background(), types.BreedTarget{Generation: 2, Images: []int{3, 7}})
	if err != nil {
		t.Fatalf("Breed error: %v", err)
	}
	if gotPath != "/breed/oldgen/2/img/3/7/" {
		t.Fatalf("unexpected breed path %q", gotPath)
	}
}

func TestMissingFieldIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"numGenerations":1,"currentGeneration":0}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).ClientInit(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestMissingEnvelopeIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"numGenerations":1}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).Test(context.Background(), 1)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestZeroFieldsAreAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/client-init/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"response":{"numGenerations":0,"currentGeneration":0,"numImages":0}}`))
	}))
	defer server.Close()

	info, err := newTestClient(server).ClientInit(context.Background())
	if err != nil {
		t.Fatalf("ClientInit error: %v", err)
	}
	if info.HasRun() {
		t.Fatalf("expected empty run, got %+v", info)
	}
}

func TestErrorStatusReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMultipleChoices)
	}))
	defer server.Close()

	_, err := newTestClient(server).Image(context.Background(), 0, 99, ThumbSize, "?_=1")
	apiErr := AsAPIError(err)
	if apiErr == nil || apiErr.StatusCode != http.StatusMultipleChoices {
		t.Fatalf("expected APIError 300, got %v", err)
	}
}

func TestImageAndGenotypeFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/image/gen/1/img/4/height/801/width/801/":
			if r.URL.Query().Get("_") != "42" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("\x89PNG"))
		case "/string/gen/1/img/4/":
			_, _ = w.Write([]byte(`{"op":"sin"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := newTestClient(server)
	png, err := c.Image(context.Background(), 1, 4, ZoomSize, "?_=42")
	if err != nil || string(png) != "\x89PNG" {
		t.Fatalf("unexpected image %q err %v", png, err)
	}
	genotype, err := c.Genotype(context.Background(), 1, 4)
	if err != nil || genotype != `{"op":"sin"}` {
		t.Fatalf("unexpected genotype %q err %v", genotype, err)
	}
	if got := c.ImageURL(1, 4, ThumbSize, "?_=42"); got != server.URL+"/image/gen/1/img/4/height/201/width/201/?_=42" {
		t.Fatalf("unexpected image url %q", got)
	}
}

func TestLogRoutesByLevel(t *testing.T) {
	got := map[string]string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got[r.URL.Path] = r.URL.Query().Get("msg")
	}))
	defer server.Close()

	c := newTestClient(server)
	if err := c.Log(context.Background(), logging.Info, "client starting"); err != nil {
		t.Fatalf("Log info: %v", err)
	}
	if err := c.Log(context.Background(), logging.Error, "reset failed: 50%"); err != nil {
		t.Fatalf("Log error: %v", err)
	}
	if got["/log/i/"] != "client starting" || got["/log/e/"] != "reset failed: 50%" {
		t.Fatalf("unexpected log requests %v", got)
	}
}

func TestNewDefaultsBaseURL(t *testing.T) {
	if got := New("  ").BaseURL(); got != DefaultBaseURL {
		t.Fatalf("expected default base url, got %q", got)
	}
	if got := New("http://host:1/").BaseURL(); got != "http://host:1" {
		t.Fatalf("expected trimmed base url, got %q", got)
	}
}
