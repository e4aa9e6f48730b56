package apperrors

import "errors"

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskRunning          = errors.New("task is still running")
	ErrTaskFailed           = errors.New("task failed")
	ErrNoInput              = errors.New("no DDL statements and no queries provided")
	ErrInvalidConnectionURL = errors.New("invalid JDBC connection URL")
	ErrUnsupportedDriver    = errors.New("unsupported database driver")
)
