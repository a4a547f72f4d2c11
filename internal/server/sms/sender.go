// Package sms integrates with the outbound SMS gateway used for one-time
// code delivery.
package sms

import "context"

// Sender dispatches a text message to a mobile number. A failed dispatch
// must surface as a distinguishable error (common.ErrorUpstream) so the
// caller can invalidate whatever state depended on the message arriving.
type Sender interface {
	Send(ctx context.Context, mobileNumber, message string) error
}
