package repository

import "errors"

var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrFeeRecordNotFound = errors.New("fee record not found")
)
