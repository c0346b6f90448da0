// Package types provides common type definitions
package types

// Failure records why one item of a batch could not be processed.
type Failure[K any] struct {
	Item   K
	Reason string
}

// Batch accumulates the outcome of an operation applied to many items where
// a failure on one item must not stop the others. Successes and failures keep
// the order in which they were recorded.
type Batch[K any] struct {
	succeeded []K
	failed    []Failure[K]
}

// Succeed records item as processed.
func (b *Batch[K]) Succeed(item K) {
	b.succeeded = append(b.succeeded, item)
}

// Fail records item as failed with reason.
func (b *Batch[K]) Fail(item K, reason string) {
	b.failed = append(b.failed, Failure[K]{Item: item, Reason: reason})
}

// Succeeded returns the processed items. Never nil.
func (b *Batch[K]) Succeeded() []K {
	if b.succeeded == nil {
		return []K{}
	}
	return b.succeeded
}

// Failed returns the failures. Never nil.
func (b *Batch[K]) Failed() []Failure[K] {
	if b.failed == nil {
		return []Failure[K]{}
	}
	return b.failed
}

// FailedItems returns the failed items and their reasons as parallel slices.
func (b *Batch[K]) FailedItems() ([]K, []string) {
	items := make([]K, 0, len(b.failed))
	reasons := make([]string, 0, len(b.failed))
	for _, f := range b.failed {
		items = append(items, f.Item)
		reasons = append(reasons, f.Reason)
	}
	return items, reasons
}

// HasFailures reports whether any item failed.
func (b *Batch[K]) HasFailures() bool {
	return len(b.failed) > 0
}

// Len returns the number of items recorded.
func (b *Batch[K]) Len() int {
	return len(b.succeeded) + len(b.failed)
}
