package client

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"breeder/internal/types"
)

var ErrMalformedResponse = errors.New("malformed response")

var responseValidate *validator.Validate

func init() {
	responseValidate = validator.New()
	responseValidate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// GenerationEnvelope is the body every state-changing endpoint returns.
type GenerationEnvelope struct {
	Response *GenerationPayload `json:"response" validate:"required"`
}

// GenerationPayload uses pointers so that an absent field can be told apart
// from a zero.
type GenerationPayload struct {
	NumGenerations    *int `json:"numGenerations" validate:"required,gte=0"`
	CurrentGeneration *int `json:"currentGeneration" validate:"required,gte=0"`
	NumImages         *int `json:"numImages" validate:"required,gte=0"`
}

func (e *GenerationEnvelope) Info() (types.GenerationInfo, error) {
	if err := responseValidate.Struct(e); err != nil {
		return types.GenerationInfo{}, malformed(err)
	}
	return types.GenerationInfo{
		NumGenerations:    *e.Response.NumGenerations,
		CurrentGeneration: *e.Response.CurrentGeneration,
		NumImages:         *e.Response.NumImages,
	}, nil
}

func malformed(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
	}
	return fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(fields, ", "))
}
