// Package notify detects turn-change edges and raises alerts for them.
package notify

import "github.com/rs/zerolog/log"

// Alerter is the presentation side of notifications. Implementations decide
// what an alert looks like; this package only decides when one is due.
//
// Push is the system-level notification path. CanPush must report true only
// when push permission has been granted and the host application is not in
// foreground focus; when it reports false, only the local Alert is used.
type Alerter interface {
	Alert(text string)
	Push(tag, title, body string)
	CanPush() bool
	RequestPushPermission()
}

// LogAlerter renders alerts as log lines. It is the headless default; GUI
// embedders supply their own Alerter.
type LogAlerter struct{}

func (LogAlerter) Alert(text string) {
	log.Info().Str("alert", text).Msg("alert")
}

func (LogAlerter) Push(tag, title, body string) {
	log.Info().Str("tag", tag).Str("title", title).Str("body", body).Msg("push notification")
}

func (LogAlerter) CanPush() bool { return false }

func (LogAlerter) RequestPushPermission() {}

// PermissionStore persists whether push permission was ever requested, so the
// request happens at most once per client lifetime.
type PermissionStore interface {
	PushPermissionRequested() bool
	SetPushPermissionRequested()
}

// RequestPermissionOnce forwards a permission request to the alerter unless
// one was already made. Callers must only invoke it from a genuine user
// interaction, never automatically.
func RequestPermissionOnce(store PermissionStore, alerter Alerter) {
	if store.PushPermissionRequested() {
		return
	}
	store.SetPushPermissionRequested()
	alerter.RequestPushPermission()
}
