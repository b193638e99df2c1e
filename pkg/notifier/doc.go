// Package notifier turns identity-provider login and logout events into
// fire-and-forget Moonwatch session notifications.
//
// For each event the notifier checks the PlatformIdleTimeSettings release
// toggle for the event's client key; when the toggle is off no API call is
// made, which is the primary cost control of the whole design. When the
// toggle is on, the matching session-init or session-end call is issued and
// its outcome logged. No outcome, including a failure, ever propagates back
// to the identity flow that triggered the event.
package notifier
