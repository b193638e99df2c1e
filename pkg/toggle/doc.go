// Package toggle decides whether a named capability is enabled for a given
// evaluation key.
//
// A Store consults a local override table first, then an injected remote
// flag-evaluation client. Local overrides always win so that operators keep
// a kill-switch that works regardless of the remote flag service's
// availability.
//
// Remote flags support indirection: a flag's string value may name another
// flag to evaluate instead of being a terminal "true"/"false". The resolver
// follows such chains with cycle detection, and any failure along the way
// (unknown flag, cycle, network error) degrades to the caller-supplied
// default. IsEnabled never fails outward: flag-service behavior must never
// block or delay the identity flow that asks the question.
//
//	store := toggle.NewStore(
//		toggle.Overrides{"platformidletimesettings": true},
//		remoteClient,
//	)
//	if store.IsEnabled(ctx, "PlatformIdleTimeSettings", clientKey, false) {
//		// capability is on
//	}
package toggle
