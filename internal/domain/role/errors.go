package role

import "errors"

var (
	ErrNotFound          = errors.New("role not found")
	ErrNameTaken         = errors.New("role name already in use")
	ErrUnknownPermission = errors.New("unknown permission")
	ErrSystemRole        = errors.New("system roles cannot be deleted")
)
