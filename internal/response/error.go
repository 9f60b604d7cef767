package response

import "errors"

// FromError returns the response carried by err, if it wraps a NO or BAD response.
func FromError(err error) (Response, bool) {
	var no *no

	if errors.As(err, &no) {
		return no, true
	}

	var bad *bad

	if errors.As(err, &bad) {
		return bad, true
	}

	return nil, false
}
