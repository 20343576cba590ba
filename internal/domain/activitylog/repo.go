package activitylog

import "context"

// Repository is append-and-read: entries are never updated or deleted through
// the API.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, f Filters, limit, offset int) ([]*Entry, int, error)
}
