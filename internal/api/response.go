package api

import (
	"context"
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wfunc/slot-engine/internal/errors"
	"github.com/wfunc/slot-engine/internal/fairness"
	"github.com/wfunc/slot-engine/internal/game/slot"
	"github.com/wfunc/slot-engine/internal/logger"
	"github.com/wfunc/slot-engine/internal/middleware"
	"github.com/wfunc/slot-engine/internal/repository"
)

// toAppError 将领域错误映射为带错误码的应用错误
func toAppError(err error) *errors.AppError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stderrors.Is(err, slot.ErrInvalidBet):
		return errors.Wrap(err, errors.ErrInvalidBet)
	case stderrors.Is(err, slot.ErrInvalidGrid):
		return errors.Wrap(err, errors.ErrInvalidGrid)
	case stderrors.Is(err, fairness.ErrSeedMismatch):
		return errors.Wrap(err, errors.ErrSeedMismatch)
	case stderrors.Is(err, fairness.ErrInvalidSeed):
		return errors.Wrap(err, errors.ErrInvalidSeed)
	case stderrors.Is(err, slot.ErrInvalidConfig):
		return errors.Wrap(err, errors.ErrConfigValidate)
	case stderrors.Is(err, repository.ErrSeedPairNotFound),
		stderrors.Is(err, repository.ErrSpinRecordNotFound):
		return errors.Wrap(err, errors.ErrNotFound)
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Wrap(err, errors.ErrAlreadyExists)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.New(errors.ErrTimeout)
	case stderrors.Is(err, context.Canceled):
		return errors.New(errors.ErrCanceled)
	default:
		// 内部错误细节只写日志
		appErr = errors.New(errors.ErrUnknown)
		appErr.Cause = err
		return appErr
	}
}

// respondError 输出统一错误响应
func respondError(c *gin.Context, err error) {
	appErr := toAppError(err)
	status := appErr.HTTPStatus()
	if status >= 500 {
		fields := []zap.Field{
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(middleware.ContextRequestID)),
			zap.Int("code", int(appErr.Code)),
			zap.Error(err),
		}
		if errors.IsCritical(appErr) {
			fields = append(fields, zap.String("stack", appErr.GetStack()))
		}
		logger.GetModuleLogger("api").Error("请求处理失败", fields...)
	}
	if errors.IsRetryable(appErr) {
		c.Header("Retry-After", "1")
	}
	c.AbortWithStatusJSON(status, errors.NewErrorResponse(appErr, c.GetString(middleware.ContextRequestID)))
}

// badRequest 参数错误
func badRequest(c *gin.Context, details string) {
	respondError(c, errors.New(errors.ErrInvalidParam, details))
}
