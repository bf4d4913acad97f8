package maintenance

import "errors"

var (
	ErrNotFound        = errors.New("maintenance request not found")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status")
)
