// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateStartsEmpty(t *testing.T) {
	s := NewState()
	assert.Equal(t, 0, s.CallsUsed())
	assert.Empty(t, s.PapersRead())
	assert.Empty(t, s.GetString(KeyDocumentURL))
}

func TestStateValues(t *testing.T) {
	s := NewState()
	s.SetInt("n", 3)
	s.SetString("url", "file:///tmp/doc.md")
	s.SetStrings("ids", []string{"a", "b"})

	assert.Equal(t, 3, s.GetInt("n"))
	assert.Equal(t, "file:///tmp/doc.md", s.GetString("url"))
	assert.Equal(t, []string{"a", "b"}, s.GetStrings("ids"))

	// Wrong type reads as zero value.
	assert.Equal(t, 0, s.GetInt("url"))
	assert.Empty(t, s.GetStrings("n"))
}

func TestStateListsAreCopied(t *testing.T) {
	s := NewState()
	in := []string{"a"}
	s.SetStrings("ids", in)
	in[0] = "mutated"

	out := s.GetStrings("ids")
	out[0] = "also mutated"
	assert.Equal(t, []string{"a"}, s.GetStrings("ids"))
}

func TestRecordReadKeepsOrderAndRepeats(t *testing.T) {
	s := NewState()
	s.RecordRead("2401.00001v1")
	s.RecordRead("2401.00002v1")
	s.RecordRead("2401.00001v2")
	s.RecordRead("2401.00001v1")
	assert.Equal(t, []string{"2401.00001v1", "2401.00002v1", "2401.00001v2", "2401.00001v1"}, s.PapersRead())
}

func TestBudgetConsumesUntilExhausted(t *testing.T) {
	s := NewState()
	b := Budget{MaxCalls: 2}

	rem, ok := b.TryConsume(s)
	require.True(t, ok)
	assert.Equal(t, 1, rem)
	assert.Equal(t, 1, s.CallsUsed())

	rem, ok = b.TryConsume(s)
	require.True(t, ok)
	assert.Equal(t, 0, rem)
	assert.Equal(t, 2, s.CallsUsed())

	rem, ok = b.TryConsume(s)
	assert.False(t, ok)
	assert.Equal(t, 0, rem)
	assert.Equal(t, 2, s.CallsUsed(), "rejected call must not change the counter")
	assert.Equal(t, 0, b.Remaining(s))
}

func TestBudgetRejectsWhenOverLimit(t *testing.T) {
	s := NewState()
	s.SetInt(KeyCallsUsed, 7)
	b := Budget{MaxCalls: 5}

	rem, ok := b.TryConsume(s)
	assert.False(t, ok)
	assert.Equal(t, 0, rem)
	assert.Equal(t, 7, s.CallsUsed())
	assert.Equal(t, 0, b.Remaining(s))
}

func TestBudgetConcurrentCallersNeverOverspend(t *testing.T) {
	s := NewState()
	b := Budget{MaxCalls: 10}

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := b.TryConsume(s); ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, granted)
	assert.Equal(t, 10, s.CallsUsed())
}

func TestConcurrentRecordRead(t *testing.T) {
	s := NewState()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.RecordRead("x")
		}()
	}
	wg.Wait()
	assert.Len(t, s.PapersRead(), 20)
}
