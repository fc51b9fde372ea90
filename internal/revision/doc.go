// Package revision tracks regeneration requests raised during a production
// run.
//
// When timeline validation decides a media stage must be regenerated, or an
// artifact fails outright, the coordinator enqueues a [Request] here instead
// of fabricating content. Requests move pending -> claimed -> resolved;
// any other transition is rejected with [ErrInvalidTransition].
//
// The core type is [Queue], a mutex-guarded in-memory queue. Accessors
// return copies, so callers can inspect state without holding references
// into the queue.
//
// Usage:
//
//	queue := revision.NewQueue()
//	req := queue.Enqueue(2, "video", "duration deviation beyond tolerance")
//
//	// A worker picks the request up and settles it.
//	claimed, err := queue.Claim(req.ID, "worker-1")
//	if err == nil {
//	    queue.Resolve(claimed.ID, "clip regenerated at 12.0s")
//	}
package revision
