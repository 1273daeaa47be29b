// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

// Budget caps the number of search calls one session may issue.
type Budget struct {
	MaxCalls int
}

// TryConsume takes one call from the budget. When the session has already
// used MaxCalls it returns (0, false) and leaves the state untouched.
// Otherwise it increments the call counter before the caller performs the
// search, so a search that then fails still counts, and returns the calls
// left afterwards.
func (b Budget) TryConsume(s *State) (remaining int, ok bool) {
	s.Atomically(func(h Handle) {
		used := h.GetInt(KeyCallsUsed)
		if used >= b.MaxCalls {
			return
		}
		used++
		h.SetInt(KeyCallsUsed, used)
		remaining, ok = b.MaxCalls-used, true
	})
	return remaining, ok
}

// Remaining returns the calls still available, never negative.
func (b Budget) Remaining(s *State) int {
	return max(b.MaxCalls-s.CallsUsed(), 0)
}
