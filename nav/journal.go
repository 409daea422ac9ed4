package nav

import (
	"fmt"
	"log"
)

// journalCap mirrors detour.BuildContext's MAX_MESSAGES: a fixed-capacity
// ring so a pathological session can never grow the log unboundedly.
const journalCap = 1000

// logCategory mirrors detour's rcLogCategory (RC_LOG_PROGRESS/WARNING/
// ERROR), generalised to this subsystem's own concerns.
type logCategory int

const (
	LogInfo logCategory = iota
	LogWarning
	LogError
)

func (c logCategory) prefix() string {
	switch c {
	case LogWarning:
		return "WARN "
	case LogError:
		return "ERR "
	default:
		return "INFO "
	}
}

// Journal is the subsystem's build/runtime log: a ring buffer of recent
// messages, grounded directly on detour.BuildContext (buildcontext.go).
// No structured logging library (zap/zerolog/logrus) appears anywhere in
// the example corpus's go.mod set; the teacher's own ambient logging is
// this same ring-buffer-plus-stdlib-log shape, so that is what this
// subsystem carries forward rather than reaching outside the corpus for
// one.
type Journal struct {
	messages []string
	start    int // ring buffer head once full
}

// NewJournal returns an empty Journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Log appends a formatted message under category, evicting the oldest
// message once journalCap is reached.
func (j *Journal) Log(cat logCategory, format string, args ...interface{}) {
	msg := cat.prefix() + fmt.Sprintf(format, args...)
	if len(j.messages) < journalCap {
		j.messages = append(j.messages, msg)
		return
	}
	j.messages[j.start] = msg
	j.start = (j.start + 1) % journalCap
}

// Count returns the number of messages currently retained.
func (j *Journal) Count() int {
	return len(j.messages)
}

// At returns the i'th retained message in chronological order.
func (j *Journal) At(i int) string {
	if len(j.messages) < journalCap {
		return j.messages[i]
	}
	return j.messages[(j.start+i)%journalCap]
}

// DumpInvariantViolation logs a full mesh dump, per §7's requirement that
// InvariantViolation failures are "accompanied by a full mesh dump on the
// log".
func (j *Journal) DumpInvariantViolation(spaceID SpaceID, m *SpaceMesh) {
	j.Log(LogError, "invariant violation in space %d: %d verts, %d edges, %d faces", spaceID, len(m.Verts), len(m.Edges), len(m.Faces))
	for i, f := range m.Faces {
		j.Log(LogError, "  face %d enabled=%v corners=[%d,%d) type=%d", i, f.Enabled, f.FirstCorner, f.FirstCorner+f.CornerCount, f.Type)
	}
	for i := 0; i < j.Count(); i++ {
		log.Println(j.At(i))
	}
}
