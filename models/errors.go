package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInputNotFound   = errors.New("input not found")
	ErrCorruptImage    = errors.New("corrupt image")
	ErrIO              = errors.New("i/o error")

	ErrOutputExists = errors.New("output already exists")
)

// JobError ties a failure to its taxonomy kind and, optionally, the path and
// underlying cause. errors.Is matches both Kind and Err.
type JobError struct {
	Kind error
	Path string
	Msg  string
	Err  error
}

func (e *JobError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *JobError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func InvalidArgumentf(format string, args ...any) error {
	return &JobError{Kind: ErrInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

func InputNotFound(path string, err error) error {
	return &JobError{Kind: ErrInputNotFound, Path: path, Err: err}
}

func CorruptImage(path string, err error) error {
	return &JobError{Kind: ErrCorruptImage, Path: path, Err: err}
}

func IOError(path, msg string, err error) error {
	return &JobError{Kind: ErrIO, Path: path, Msg: msg, Err: err}
}
