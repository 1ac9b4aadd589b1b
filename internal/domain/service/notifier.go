package service

import "context"

// ActivationNotifier defines the interface for delivering activation links to
// a freshly registered email address. Delivery is best-effort: the lifecycle
// core fires it asynchronously and never lets a delivery failure change the
// outcome of registration.
type ActivationNotifier interface {
	// SendActivationEmail sends the activation link to the address.
	SendActivationEmail(ctx context.Context, email, link string) error
}
