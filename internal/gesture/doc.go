// Package gesture classifies raw input events into tab-management gestures.
//
// Each classifier inspects one event against the configuration snapshot and the
// live UI (through the collaborators in Env) and returns a Decision. Classifiers
// do not apply their actions; the dispatcher does, in order. The only side effects
// a classifier performs itself are the ones needed before the tab container can be
// located at all: closing the find bar and leaving full screen.
package gesture
