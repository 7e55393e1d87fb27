package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
// 提取、归档、发布失败不会让整份简历处理失败，只有
// 数据库错误和目录缺失会以错误形式上抛
var (
	ErrDatabaseFailed = errors.New("数据库操作失败")
	ErrFolderNotFound = errors.New("简历目录不存在")
)

// ProcessError 携带上下文的处理错误
type ProcessError struct {
	FilePath string
	Op       string
	BaseErr  error
	Detail   string
}

func (e *ProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 文件:%s): %s", e.BaseErr, e.Op, e.FilePath, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 文件:%s)", e.BaseErr, e.Op, e.FilePath)
}

func (e *ProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *ProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewDatabaseError(filePath, detail string) error {
	return &ProcessError{
		FilePath: filePath,
		Op:       "insert",
		BaseErr:  ErrDatabaseFailed,
		Detail:   detail,
	}
}
