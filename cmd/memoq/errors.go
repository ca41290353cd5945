package main

import "fmt"

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

func usageErrorf(format string, args ...interface{}) error {
	return &exitError{
		code: 2,
		msg:  fmt.Sprintf(format, args...),
	}
}
