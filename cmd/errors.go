package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"

	"github.com/manifoldco/promptui"

	"github.com/spigell/mock-interview/internal/backend"
	"github.com/spigell/mock-interview/internal/identity"
)

var errCancelled = errors.New("cancelled")

// userMessage turns any error into the one line shown to the user.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var reqErr *backend.RequestError
	var urlErr *url.Error
	var netErr net.Error

	switch {
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF), errors.Is(err, errCancelled):
		return "cancelled"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.Is(err, context.DeadlineExceeded):
		return "the interview service did not answer in time"
	case errors.Is(err, identity.ErrNoIdentity):
		return "you are not logged in; run `" + app + " login` or `" + app + " guest`"
	case errors.As(err, &reqErr):
		return requestErrorMessage(reqErr)
	case errors.As(err, &urlErr), errors.As(err, &netErr):
		return "could not reach the interview service: " + err.Error()
	default:
		return err.Error()
	}
}

func requestErrorMessage(err *backend.RequestError) string {
	detail := err.Detail()

	switch err.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if detail == "" {
			detail = "access denied"
		}
		return detail + "; try logging in again"
	case http.StatusNotFound:
		if detail == "" {
			detail = "not found"
		}
		return detail
	}

	if detail == "" {
		return "the interview service answered " + err.Status
	}
	return detail
}
