package engine

// Epoch is the token carried by every asynchronous load/check cycle. The
// engine's counter advances whenever a new load begins; a cycle holding an
// older token must discard its result instead of committing. Comparing
// through guardEpoch at commit time is the single staleness check — workers
// do not sprinkle ad hoc counter reads.
type Epoch uint64

// beginEpoch advances the counter and returns the new token.
// Callers must hold e.mu.
func (e *Engine) beginEpoch() Epoch {
	e.epoch++
	return e.epoch
}

// currentEpoch returns the live token without advancing it.
// Callers must hold e.mu.
func (e *Engine) currentEpoch() Epoch {
	return e.epoch
}

// guardEpoch reports whether a cycle holding tok may commit.
// Callers must hold e.mu.
func (e *Engine) guardEpoch(tok Epoch) bool {
	return e.epoch == tok
}
