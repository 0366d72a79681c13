package api

import (
	"net/http"

	"github.com/google/uuid"
)

// OptRequestID tags the outgoing request with a fresh correlation id.
func OptRequestID() Opt {
	return requestIDOpt{}
}

type requestIDOpt struct{}

func (requestIDOpt) Do(_ defaultClient, req *http.Request) {
	req.Header.Set("X-Request-Id", uuid.NewString())
}
