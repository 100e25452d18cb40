package testutils

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// QueuedRoller returns queued rolls in order, then the die size
type QueuedRoller struct {
	Rolls []int
	Sizes []int
}

var _ dice.Roller = (*QueuedRoller)(nil)

// NewQueuedRoller queues rolls for the next Roll calls
func NewQueuedRoller(rolls ...int) *QueuedRoller {
	return &QueuedRoller{Rolls: rolls}
}

// Roll pops the next queued roll
func (r *QueuedRoller) Roll(size int) (int, error) {
	r.Sizes = append(r.Sizes, size)
	if len(r.Rolls) == 0 {
		return size, nil
	}
	roll := r.Rolls[0]
	r.Rolls = r.Rolls[1:]
	return roll, nil
}

// RollN pops count queued rolls
func (r *QueuedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		roll, _ := r.Roll(size)
		out = append(out, roll)
	}
	return out, nil
}
