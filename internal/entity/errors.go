package entity

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateMySQLID  = errors.New("a lead with this mysql_id already exists")
	ErrInvalidCartStatus = errors.New("invalid cart status")
	ErrInvalidPriority   = errors.New("invalid cart priority")
)
