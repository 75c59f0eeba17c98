package service

import (
	"errors"

	"trainload/internal/analysis"
)

// ErrUnknownMetric is returned for chart metrics outside analysis.Metrics
var ErrUnknownMetric = analysis.ErrUnknownMetric

// ErrInvalidArgument is returned for out-of-range query parameters
var ErrInvalidArgument = errors.New("invalid argument")
