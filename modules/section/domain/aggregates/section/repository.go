package section

import (
	"context"
	"errors"
)

// ErrorsTypename is the type name the API puts into every errors object.
// A value equal to it carries no message.
const ErrorsTypename = "SectionErrors"

// GeneralErrorKey holds the message that is not tied to a single field.
const GeneralErrorKey = "general"

var ErrNotFound = errors.New("section not found")

type UpdateInput struct {
	ID           int64
	Name         string
	Introduction string
	Requirements string
	Guidance     string
	DisplayOrder int
	BestPractice bool
	TagIDs       []int64
}

// UpdateResult is what the update operation resolved with. Errors is nil
// when the API returned no errors object.
type UpdateResult struct {
	Section *Section
	Errors  map[string]string
}

type RemoveResult struct {
	ID int64
}

type Reader interface {
	GetByID(ctx context.Context, id int64) (Section, error)
}

type TagCatalog interface {
	Tags(ctx context.Context) ([]Tag, error)
}

type Writer interface {
	Update(ctx context.Context, input UpdateInput) (UpdateResult, error)
	Remove(ctx context.Context, id int64) (RemoveResult, error)
}

type Repository interface {
	Reader
	TagCatalog
	Writer
}
