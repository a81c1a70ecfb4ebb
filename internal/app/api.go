package app

import (
	"context"

	"breeder/internal/breeder"
)

// BreederAPI is what the UI needs from the breeding service: the state
// changing calls driven by the breeder plus image inspection.
type BreederAPI interface {
	breeder.API
	Genotype(ctx context.Context, generation, image int) (string, error)
	ImageURL(generation, image, size int, query string) string
	GenotypeURL(generation, image int) string
}
