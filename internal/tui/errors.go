package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/pders01/dex/internal/debuglog"
)

// loadError is a failed fetch. key identifies the request in logs and never
// reaches the screen.
type loadError struct {
	resource string
	key      string
	err      error
}

func (e *loadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.resource, e.err)
}

func (e *loadError) Unwrap() error { return e.err }

func loadFailed(resource, key string, err error) error {
	if err == nil {
		return nil
	}
	return &loadError{resource: resource, key: key, err: err}
}

// logLoadError records err unless it only reports that the app is shutting
// down.
func logLoadError(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	var le *loadError
	if errors.As(err, &le) {
		debuglog.WithFields(map[string]interface{}{"key": le.key}).Warnf("%v", err)
		return
	}
	debuglog.Warnf("%v", err)
}
