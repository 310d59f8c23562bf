package cogitator

import "errors"

var (
	ErrMalformedBody       = errors.New("malformed request body")
	ErrUnknownTask         = errors.New("unknown task")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrMissingAPIKey       = errors.New("missing provider API key")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrProvider            = errors.New("provider request failed")
	ErrProviderTimeout     = errors.New("provider request timed out")
)

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
