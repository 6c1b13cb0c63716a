package auth

import (
	"net/http"

	"github.com/feiyu23/spark-resume-ai/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeMissingCredentials = ErrRegistry.Register("MISSING_CREDENTIALS", errx.TypeAuthentication, http.StatusUnauthorized, "Missing credentials")
	CodeInvalidToken       = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthentication, http.StatusUnauthorized, "Invalid or expired token")
	CodeInvalidAPIKey      = ErrRegistry.Register("INVALID_API_KEY", errx.TypeAuthentication, http.StatusUnauthorized, "Invalid API key")
)

func ErrMissingCredentials() *errx.Error {
	return ErrRegistry.New(CodeMissingCredentials)
}

func ErrInvalidToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidToken)
}

func ErrInvalidAPIKey() *errx.Error {
	return ErrRegistry.New(CodeInvalidAPIKey)
}
