package resolve_action_token

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type TokenService interface {
	ResolveActionToken(ctx context.Context, token domain.ActionToken) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
