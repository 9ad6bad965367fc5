package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/entry"
	"github.com/yourname/sleepdiary/internal/metrics"
	"github.com/yourname/sleepdiary/internal/timefmt"
)

var validate = newValidator()

// newValidator reports fields by their JSON name, which is what clients send.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func ValidateEntry(e *internal.SleepEntry) error {
	return validate.Struct(e)
}

// EntryFieldErrors explains a ValidateEntry failure per field, keyed by the
// field's JSON path (e.g. "startTime", "entryFactors[f1].name"). It returns
// nil for any other error.
func EntryFieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		out[path] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a date like 2026-10-16"
	case "len", "numeric":
		return "must be a 24-hour time like 2230"
	case "gte", "lte":
		return "must be between 0 and 100"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid (" + fe.Tag() + ")"
}

type EntryDeps struct {
	Loader  *entry.Loader
	Dates   timefmt.DateUtil
	Logger  internal.Logger
	Metrics *metrics.Metrics
}

// OpenScreen builds a screen for src and waits for it to settle. The caller
// owns the returned screen and must Close it.
func OpenScreen(ctx context.Context, deps EntryDeps, src entry.EntrySource, nav entry.Navigator) (*entry.Screen, error) {
	screen := entry.NewScreen(deps.Loader, deps.Dates, nav, deps.Logger, deps.Metrics)
	if err := screen.Open(ctx, src); err != nil {
		screen.Close()
		return nil, err
	}
	if err := screen.Wait(ctx); err != nil {
		screen.Close()
		return nil, fmt.Errorf("service: waiting for entry: %w", err)
	}
	return screen, nil
}

func ShowEntry(ctx context.Context, deps EntryDeps, src entry.EntrySource) (entry.ViewModel, error) {
	screen, err := OpenScreen(ctx, deps, src, entry.NavigatorFunc(func(context.Context, *internal.SleepEntry) error { return nil }))
	if err != nil {
		return entry.ViewModel{}, err
	}
	defer screen.Close()
	return screen.View(), nil
}

// EditEntry resolves src and, when the entry may be edited, hands it to nav.
// It returns entry.ErrEditUnavailable otherwise.
func EditEntry(ctx context.Context, deps EntryDeps, src entry.EntrySource, nav entry.Navigator) (entry.ViewModel, error) {
	screen, err := OpenScreen(ctx, deps, src, nav)
	if err != nil {
		return entry.ViewModel{}, err
	}
	defer screen.Close()
	if err := screen.Edit(ctx); err != nil {
		return screen.View(), err
	}
	return screen.View(), nil
}

func CacheYesterdaysEntry(ctx context.Context, deps EntryDeps, e *internal.SleepEntry) error {
	if err := ValidateEntry(e); err != nil {
		return err
	}
	return deps.Loader.CacheYesterdaysEntry(ctx, *e)
}
