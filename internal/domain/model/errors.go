package model

import "errors"

var (
	ErrSessionNotFound = errors.New("page session not found")
	ErrUnknownField    = errors.New("unknown form field")
	ErrPointNotFound   = errors.New("point not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrInvalidBBox     = errors.New("invalid bounding box")
)
