// Package delivery defines the contract every transport adapter satisfies.
package delivery

import "context"

// Delivery is a serving surface (HTTP today) started by the fx app.
// Serve blocks until the server stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
