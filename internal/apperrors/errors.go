package apperrors

import "errors"

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrMissingInput indicates that a required input source does not exist.
// The run is aborted before any processing starts.
var ErrMissingInput = errors.New("input not found")

// ErrRateUnavailable indicates that no usable exchange rate could be obtained for a currency.
// It never aborts a run; callers fall back to the unconverted price.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrDegenerateQuantity marks an order item whose quantity is zero or negative.
var ErrDegenerateQuantity = errors.New("degenerate item quantity")

// ErrReportWrite indicates that the output report could not be written.
var ErrReportWrite = errors.New("report write failed")
