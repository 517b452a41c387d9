package files

import "errors"

var (
	ErrParentNotFound   = errors.New("parent not found")
	ErrParentNotAFolder = errors.New("parent is not a folder")
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInternal         = errors.New("internal failure")
)

const (
	FieldName = "name"
	FieldType = "type"
	FieldData = "data"
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field   string
	Invalid bool
}

func (e *ValidationError) Error() string {
	if e.Invalid {
		return "invalid " + e.Field
	}
	return "missing " + e.Field
}

// Reasons carried by NotFoundError. They are logged, never sent to clients.
const (
	reasonMissing     = "missing"
	reasonNotOwner    = "not_owner"
	reasonHidden      = "hidden"
	reasonBlobMissing = "blob_missing"
)

// NotFoundError covers both absent records and records the caller may not
// see. Both render the same to the caller.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string {
	return ErrNotFound.Error()
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(reason string) error {
	return &NotFoundError{Reason: reason}
}

// NotFoundReason extracts the internal reason from err, if any.
func NotFoundReason(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Reason
	}
	return ""
}
