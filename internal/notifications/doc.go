// Package notifications sends completion notices after a render.
//
// Two transports are supported: termux-notification on Android/Termux and an
// ntfy topic over HTTP. Either, both or neither may be configured; with none
// the service is a no-op. Delivery failures are returned to the caller, which
// logs them as warnings and never fails the render because of them.
package notifications
