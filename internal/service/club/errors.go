package club

import "errors"

var (
	ErrClubNotFound  = errors.New("club not found")
	ErrFieldNotFound = errors.New("field not found")
	ErrClubConflict  = errors.New("conflict creating club")
)
