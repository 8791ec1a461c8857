package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the JSON body returned for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Logger emits one access log line per request.
func Logger(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()
	chain.ProcessFilter(req, resp)
	log.Info().
		Str("method", req.Request.Method).
		Str("path", req.Request.URL.Path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("Request handled")
}

// RecoverPanic converts a handler panic into a 500 instead of killing the
// connection.
func RecoverPanic(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("path", req.Request.URL.Path).
				Msg("Recovered from panic in handler")
			HandleError(resp, errors.New("internal server error"), http.StatusInternalServerError)
		}
	}()
	chain.ProcessFilter(req, resp)
}

func HandleError(resp *restful.Response, err error, statusCode int) {
	if writeErr := resp.WriteHeaderAndEntity(statusCode, ErrorResponse{Error: err.Error()}); writeErr != nil {
		log.Error().Err(writeErr).Msg("Failed to write error response")
	}
}
