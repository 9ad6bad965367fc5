package entry

import (
	"context"
	"errors"

	"github.com/yourname/sleepdiary/internal"
)

// EditRoute is the screen an edit request navigates to.
const EditRoute = "EditEntry"

var ErrEditUnavailable = errors.New("entry: editing is only available for yesterday's entry")

type Navigator interface {
	RequestEdit(ctx context.Context, e *internal.SleepEntry) error
}

type NavigatorFunc func(ctx context.Context, e *internal.SleepEntry) error

func (f NavigatorFunc) RequestEdit(ctx context.Context, e *internal.SleepEntry) error {
	return f(ctx, e)
}
