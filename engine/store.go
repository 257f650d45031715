package engine

// ============================================================================
// TRANSACTION STORE — Read-only data boundary
// ============================================================================
// The engine never owns consumer data. It reads an ordered, immutable
// collection of lines through this interface; ingestion, persistence, and
// refresh belong to the caller. If the backing data can change, the caller
// must hand the engine a consistent snapshot for the duration of a run.
// ============================================================================

// Store provides indexed, read-only access to transaction lines.
// Run calls Line in a tight loop — keep implementations fast.
type Store interface {
	Len() int
	Line(i int) TransactionLine
}

// SliceStore adapts a []TransactionLine to the Store interface.
type SliceStore []TransactionLine

// NewSliceStore wraps lines as a Store. The slice is not copied; callers
// must not mutate it while a run is in flight.
func NewSliceStore(lines []TransactionLine) SliceStore { return SliceStore(lines) }

func (s SliceStore) Len() int                   { return len(s) }
func (s SliceStore) Line(i int) TransactionLine { return s[i] }
