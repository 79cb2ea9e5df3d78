package competencysync

import "errors"

// Every failure of a run wraps exactly one of these kinds.
var (
	ErrParse      = errors.New("parse error")
	ErrSchema     = errors.New("unrecognized document structure")
	ErrValidation = errors.New("invalid configuration")
	ErrDuplicate  = errors.New("duplicate entity")
	ErrReference  = errors.New("unresolved reference")
	ErrConfig     = errors.New("invalid sync configuration")

	ErrSyncInProgress = errors.New("competency sync already in progress")
	ErrSyncDisabled   = errors.New("competency reload is disabled")
)
