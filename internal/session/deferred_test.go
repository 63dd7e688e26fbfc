package session

import (
	"testing"
	"time"
)

func TestDeferred_ScheduleTakeFire(t *testing.T) {
	d := NewDeferred()
	ran := 0
	id := d.Schedule(time.Second, func() { ran++ })

	tasks := d.Take()
	if len(tasks) != 1 || tasks[0].ID != id || tasks[0].Delay != time.Second {
		t.Fatalf("Take() = %+v", tasks)
	}
	if again := d.Take(); len(again) != 0 {
		t.Errorf("second Take() = %+v, want empty", again)
	}
	if !d.Fire(id) || ran != 1 {
		t.Fatalf("Fire ran=%d, want 1", ran)
	}
	if d.Fire(id) || ran != 1 {
		t.Error("task fired twice")
	}
}

func TestDeferred_Cancel(t *testing.T) {
	d := NewDeferred()
	ran := false
	id := d.Schedule(time.Second, func() { ran = true })
	d.Cancel(id)

	if tasks := d.Take(); len(tasks) != 0 {
		t.Errorf("Take() after cancel = %+v, want empty", tasks)
	}
	if d.Fire(id) || ran {
		t.Error("cancelled task fired")
	}
	d.Cancel(0)
	d.Cancel(99)
}

func TestDeferred_CancelAll(t *testing.T) {
	d := NewDeferred()
	ids := []TaskID{
		d.Schedule(time.Second, func() { t.Error("fired") }),
		d.Schedule(2*time.Second, func() { t.Error("fired") }),
	}
	d.CancelAll()

	if d.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", d.Pending())
	}
	for _, id := range ids {
		if d.Fire(id) {
			t.Errorf("task %d fired after CancelAll", id)
		}
	}
}
