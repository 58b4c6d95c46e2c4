// Package notifier announces published releases.
package notifier

import (
	"context"
	"fmt"
	"net/http"
)

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// FormatMessage renders "<prefix> (<tag>) !".
func FormatMessage(prefix, tag string) string {
	return fmt.Sprintf("%s (%s) !", prefix, tag)
}
