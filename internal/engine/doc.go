// Package engine turns memorized items into insistent reminders.
//
// An Engine owns one wake queue. Every reminder occurrence is identified by
// its tag and is driven by Step, a pure transition from one job to the next:
//
//	Scheduled -> Fired -> Acknowledged
//	                   -> Escalating -> Fired ...
//	                   -> Expired
//
// Deferred is orthogonal: a fire during quiet hours re-arms itself for the
// end of quiet hours without presenting anything. Acknowledgement never
// cancels a wake directly; the next evaluation observes it and stops.
//
// Dispatcher fans items out into occurrences and polls the due-items source.
package engine
