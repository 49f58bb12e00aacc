package remove_blocked_time

import (
	"context"
)

type ScheduleService interface {
	RemoveBlockedTime(ctx context.Context, businessID, blockedTimeID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
