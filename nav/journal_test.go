package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalLogFormatsAndPrefixes(t *testing.T) {
	j := NewJournal()
	j.Log(LogInfo, "hello %d", 1)
	j.Log(LogWarning, "careful")
	j.Log(LogError, "boom")

	require.Equal(t, 3, j.Count())
	assert.Equal(t, "INFO hello 1", j.At(0))
	assert.Equal(t, "WARN careful", j.At(1))
	assert.Equal(t, "ERR boom", j.At(2))
}

func TestJournalRingBufferEvictsOldestPastCapacity(t *testing.T) {
	j := NewJournal()
	for i := 0; i < journalCap+10; i++ {
		j.Log(LogInfo, "msg %d", i)
	}

	require.Equal(t, journalCap, j.Count())
	// the first 10 messages (0..9) should have been evicted; the oldest
	// retained message is now #10, the newest #(journalCap+9).
	assert.Equal(t, "INFO msg 10", j.At(0))
	assert.Equal(t, "INFO msg 1009", j.At(j.Count()-1))
}

func TestJournalAtPreservesChronologicalOrderAcrossWrap(t *testing.T) {
	j := NewJournal()
	for i := 0; i < journalCap; i++ {
		j.Log(LogInfo, "msg %d", i)
	}
	// buffer now exactly full (no wrap yet); one more message forces a wrap.
	j.Log(LogInfo, "msg %d", journalCap)

	assert.Equal(t, "INFO msg 1", j.At(0))
	assert.Equal(t, "INFO msg 1000", j.At(j.Count()-1))
}
