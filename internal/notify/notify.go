// Package notify holds the outbound channels the reminder core talks to:
// the email gateway, the platform push sink and the push-permission provider.
// All of them are best-effort; a failed send never fails a reminder.
package notify

import "context"

// Message is an outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string // optional
}

// EmailGateway sends an email and reports whether it was sent. A disabled or
// misconfigured gateway returns false without an error; errors are reserved
// for transport failures and are logged by the caller, never propagated.
type EmailGateway interface {
	Send(ctx context.Context, m Message) (bool, error)
}

// PushSink displays a native notification. Fire-and-forget: the caller
// ignores everything but logs the returned error.
type PushSink interface {
	Push(ctx context.Context, title, body string) error
}

// PermissionProvider answers whether platform push permission is granted.
// RequestPermission is only ever invoked on explicit user action.
type PermissionProvider interface {
	RequestPermission(ctx context.Context) (bool, error)
	Granted() bool
}

// NopEmail is an EmailGateway that never sends.
type NopEmail struct{}

func (NopEmail) Send(context.Context, Message) (bool, error) { return false, nil }

// NopPush is a PushSink that drops everything.
type NopPush struct{}

func (NopPush) Push(context.Context, string, string) error { return nil }

// StaticPermission is a PermissionProvider with a fixed answer, used when the
// platform has no permission concept (e.g. a headless daemon).
type StaticPermission bool

func (p StaticPermission) RequestPermission(context.Context) (bool, error) { return bool(p), nil }
func (p StaticPermission) Granted() bool                                   { return bool(p) }
