package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"breeder/internal/logging"
	"breeder/internal/types"
)

const (
	DefaultBaseURL = "http://127.0.0.1:4567"

	ThumbSize = 201
	ZoomSize  = 801

	imageTimeout = 60 * time.Second
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ClientInit(ctx context.Context) (types.GenerationInfo, error) {
	return c.generation(ctx, http.MethodGet, "/client-init/")
}

func (c *Client) Reset(ctx context.Context, imageCount int) (types.GenerationInfo, error) {
	if imageCount <= 0 {
		return types.GenerationInfo{}, fmt.Errorf("reset: image count %d must be positive", imageCount)
	}
	return c.generation(ctx, http.MethodPost, fmt.Sprintf("/reset/%d/", imageCount))
}

func (c *Client) Breed(ctx context.Context, target types.BreedTarget) (types.GenerationInfo, error) {
	if len(target.Images) == 0 {
		return types.GenerationInfo{}, errors.New("breed: at least one image is required")
	}
	return c.generation(ctx, http.MethodPost, BreedPath(target))
}

func (c *Client) Test(ctx context.Context, number int) (types.GenerationInfo, error) {
	return c.generation(ctx, http.MethodPost, fmt.Sprintf("/test/%d", number))
}

// BreedPath is /breed/oldgen/{gen}/img/{i1}/{i2}/.../ for target.
func BreedPath(target types.BreedTarget) string {
	var b strings.Builder
	b.WriteString("/breed/oldgen/")
	b.WriteString(strconv.Itoa(target.Generation))
	b.WriteString("/img/")
	for _, idx := range target.Images {
		b.WriteString(strconv.Itoa(idx))
		b.WriteByte('/')
	}
	return b.String()
}

func ImagePath(generation, image, size int) string {
	return fmt.Sprintf("/image/gen/%d/img/%d/height/%d/width/%d/", generation, image, size, size)
}

func GenotypePath(generation, image int) string {
	return fmt.Sprintf("/string/gen/%d/img/%d/", generation, image)
}

// ImageURL is the absolute image URL with the cache-busting query appended.
func (c *Client) ImageURL(generation, image, size int, query string) string {
	return c.baseURL + ImagePath(generation, image, size) + query
}

func (c *Client) GenotypeURL(generation, image int) string {
	return c.baseURL + GenotypePath(generation, image)
}

// Image downloads one rendered PNG.
func (c *Client) Image(ctx context.Context, generation, image, size int, query string) ([]byte, error) {
	client := &http.Client{Timeout: imageTimeout, Transport: c.http.Transport}
	return c.doRawWithClient(ctx, http.MethodGet, ImagePath(generation, image, size)+query, client)
}

// Genotype returns the server's JSON rendering of an image's gene tree.
func (c *Client) Genotype(ctx context.Context, generation, image int) (string, error) {
	body, err := c.doRawWithClient(ctx, http.MethodGet, GenotypePath(generation, image), c.http)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Log posts msg to the service's info or error log endpoint.
func (c *Client) Log(ctx context.Context, level logging.Level, msg string) error {
	kind := "i"
	if level >= logging.Warn {
		kind = "e"
	}
	path := "/log/" + kind + "/?msg=" + url.QueryEscape(msg)
	return c.doJSON(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) generation(ctx context.Context, method, path string) (types.GenerationInfo, error) {
	var env GenerationEnvelope
	if err := c.doJSON(ctx, method, path, nil, &env); err != nil {
		return types.GenerationInfo{}, err
	}
	info, err := env.Info()
	if err != nil {
		return types.GenerationInfo{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return info, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.http
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) doRawWithClient(ctx context.Context, method, path string, httpClient *http.Client) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
