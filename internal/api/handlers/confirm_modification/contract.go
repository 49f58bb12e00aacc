package confirm_modification

import (
	"context"

	confirmModification "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_modification"
)

type ConfirmModificationUseCase interface {
	Execute(ctx context.Context, req *confirmModification.Request) (*confirmModification.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
