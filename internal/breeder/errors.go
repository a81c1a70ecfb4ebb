package breeder

import "errors"

var (
	ErrGenerationOutOfRange = errors.New("generation out of range")
	ErrInvalidBreed         = errors.New("not enough pictures for breeding: need at least two")
	ErrBusy                 = errors.New("a request is already in flight")
	ErrNotStarted           = errors.New("breeder has not been started")
	ErrNothingToResume      = errors.New("server reported no run to resume")
	ErrInvalidImageCount    = errors.New("image count must be positive")
	ErrImageOutOfRange      = errors.New("image index out of range")
	ErrUnknownEvent         = errors.New("unknown event")
)

var (
	ErrEmptyGeneration = errors.New("server reported no generations or no images")
	ErrInvalidTest     = errors.New("test number must be positive")
)
