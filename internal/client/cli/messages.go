package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/greetkeeper/internal/client/router"
	"github.com/dmitrijs2005/greetkeeper/internal/client/services"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
)

// userMessage renders err as the one-line message shown on the screen.
// Service-reported messages are shown as the service wrote them.
func userMessage(err error) string {
	var (
		sagaErr *services.SagaError
		apiErr  *gateway.APIError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &sagaErr):
		msg := fmt.Sprintf("%s failed at step %q: %s", sagaErr.Saga, sagaErr.Step, userMessage(sagaErr.Err))
		if w := sagaErr.Warning(); w != "" {
			msg += " (" + w + ")"
		}
		return msg
	case errors.Is(err, services.ErrDebitFailed):
		if errors.As(err, &apiErr) {
			return services.ErrDebitFailed.Error() + ": " + apiErr.Message
		}
		return err.Error()
	case errors.Is(err, services.ErrCopyFailed):
		return services.ErrCopyFailed.Error()
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, gateway.ErrUnavailable):
		return "the service is unavailable, please try again later"
	case errors.Is(err, context.DeadlineExceeded):
		return "the request timed out, please try again"
	case errors.Is(err, router.ErrUnknownRoute):
		return err.Error() + " (try /, /auth, /add-person, /people or /generate/<id>)"
	}
	return err.Error()
}
