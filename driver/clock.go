package driver

import (
	"math"

	"github.com/BelaPlatform/PAW-2019/render"
)

// Clock steps periodic tasks on the sample clock. Offline renders use it so
// that what a task sees depends on the rendered timeline and not on how the
// render goroutine is scheduled. A nil Clock does nothing.
type Clock struct {
	tasks []clocked
	now   int
}

type clocked struct {
	step         func()
	period, next int
}

func (k *Clock) add(t render.Task, sampleRate float64) int {
	period := max(1, int(math.Round(t.Period.Seconds()*sampleRate)))
	k.tasks = append(k.tasks, clocked{step: t.Step, period: period})
	return period
}

// Advance steps every task due at the current frame and then moves the clock
// on by frames. Drivers call it once per block, before Render.
func (k *Clock) Advance(frames int) {
	if k == nil {
		return
	}
	for i := range k.tasks {
		t := &k.tasks[i]
		for t.next <= k.now {
			t.step()
			t.next += t.period
		}
	}
	k.now += frames
}

// Now is the number of frames the clock has advanced.
func (k *Clock) Now() int {
	if k == nil {
		return 0
	}
	return k.now
}
