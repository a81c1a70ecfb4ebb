package main

import (
	"context"

	"breeder/internal/app"
	breederclient "breeder/internal/client"
	"breeder/internal/logging"
	"breeder/internal/types"
)

type clientFactory func(baseURL string) (commandClient, error)

type commandClient interface {
	BaseURL() string
	ClientInit(ctx context.Context) (types.GenerationInfo, error)
	Reset(ctx context.Context, imageCount int) (types.GenerationInfo, error)
	Test(ctx context.Context, number int) (types.GenerationInfo, error)
	Image(ctx context.Context, generation, image, size int, query string) ([]byte, error)
	Log(ctx context.Context, level logging.Level, msg string) error
	RunUI(ctx context.Context, opts app.Options) error
}

type breederClientAdapter struct {
	client *breederclient.Client
}

func newBreederClient(baseURL string) (commandClient, error) {
	return &breederClientAdapter{client: breederclient.New(baseURL)}, nil
}

func (c *breederClientAdapter) BaseURL() string {
	return c.client.BaseURL()
}

func (c *breederClientAdapter) ClientInit(ctx context.Context) (types.GenerationInfo, error) {
	return c.client.ClientInit(ctx)
}

func (c *breederClientAdapter) Reset(ctx context.Context, imageCount int) (types.GenerationInfo, error) {
	return c.client.Reset(ctx, imageCount)
}

func (c *breederClientAdapter) Test(ctx context.Context, number int) (types.GenerationInfo, error) {
	return c.client.Test(ctx, number)
}

func (c *breederClientAdapter) Image(ctx context.Context, generation, image, size int, query string) ([]byte, error) {
	return c.client.Image(ctx, generation, image, size, query)
}

func (c *breederClientAdapter) Log(ctx context.Context, level logging.Level, msg string) error {
	return c.client.Log(ctx, level, msg)
}

func (c *breederClientAdapter) RunUI(ctx context.Context, opts app.Options) error {
	opts.API = c.client
	return app.Run(ctx, opts)
}
