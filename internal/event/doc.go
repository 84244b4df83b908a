// Package event provides the synchronous publish/subscribe emitter the
// document model uses to announce changes.
//
// Topics are hierarchical, dot-separated names ("block.text.changed").
// Subscriptions take a pattern in which "*" matches exactly one segment and
// "**" matches zero or more:
//
//	em := event.NewEmitter()
//	sub, _ := em.Subscribe("block.*.changed", event.HandlerFunc(func(e any) {
//	    // called for block.text.changed, block.type.changed, ...
//	}))
//	defer sub.Cancel()
//
// Delivery happens in the publisher's goroutine, in priority order, before
// Publish returns. A panicking handler is recovered and reported to the
// emitter's panic handler; remaining handlers still run.
package event
