package fdtd

import "errors"

var (
	// ErrConfig reports an engine configuration that cannot produce a valid grid.
	ErrConfig = errors.New("invalid engine configuration")

	// ErrRegions reports a region list that does not partition the grid.
	ErrRegions = errors.New("regions do not partition the grid")

	// ErrUnknownParameter reports a parameter name outside glassEpsR,
	// waterEpsR and waterSigma.
	ErrUnknownParameter = errors.New("unknown material parameter")

	// ErrNonFinite reports a NaN or infinite parameter submission.
	ErrNonFinite = errors.New("parameter value is not finite")
)
