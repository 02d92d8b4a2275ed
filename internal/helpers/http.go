package helpers

import (
	"net/http"

	"github.com/env0/saga/internal/models"
)

// RespondHTTP writes a handler response to the wire. The response body is
// already serialised by the handler; headers go out before the status code.
func RespondHTTP(response models.Response, rw http.ResponseWriter) {
	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write([]byte(response.Body))
}
