package slot

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBet    = errors.New("无效的下注金额")
	ErrInvalidConfig = errors.New("无效的配置")
	ErrInvalidGrid   = errors.New("无效的盘面")
)

// ConfigError 配置错误，只会在构造阶段出现
type ConfigError struct {
	Component string // catalog, paylines, paytable, features
	Reason    string
}

// Error 实现error接口
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig.Error(), e.Component, e.Reason)
}

// Is 使errors.Is(err, ErrInvalidConfig)成立
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func configErrorf(component, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Component: component, Reason: fmt.Sprintf(format, args...)}
}
