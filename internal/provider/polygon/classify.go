package polygon

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/polygon-io/client-go/rest/models"

	"polybars/internal/model"
)

// Classify maps a provider error to a FailureKind. Provider status markers
// in the message win over transport-level signals.
func Classify(err error) model.FailureKind {
	if err == nil {
		return ""
	}

	msg := strings.ToUpper(err.Error())
	switch {
	case strings.Contains(msg, "NOT_AUTHORIZED"):
		return model.Unauthorized
	case strings.Contains(msg, "RATE_LIMIT"), strings.Contains(msg, "TOO MANY REQUESTS"):
		return model.RateLimited
	}

	var se *StatusError
	if errors.As(err, &se) {
		return classifyStatus(se.StatusCode)
	}
	var apiErr *models.ErrorResponse
	if errors.As(err, &apiErr) {
		if k := classifyStatus(apiErr.StatusCode); k != model.Unknown {
			return k
		}
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return model.Transient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return model.Transient
	}

	switch {
	case strings.Contains(msg, "UNAUTHORIZED"), strings.Contains(msg, "FORBIDDEN"):
		return model.Unauthorized
	case strings.Contains(msg, "TIMEOUT"), strings.Contains(msg, "CONNECTION RESET"),
		strings.Contains(msg, "CONNECTION REFUSED"), strings.Contains(msg, "EOF"):
		return model.Transient
	}
	return model.Unknown
}

func classifyStatus(code int) model.FailureKind {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return model.Unauthorized
	case code == http.StatusTooManyRequests:
		return model.RateLimited
	case code == http.StatusRequestTimeout, code >= 500:
		return model.Transient
	default:
		return model.Unknown
	}
}
