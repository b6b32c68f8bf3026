package moonwalk

import "sort"

// TimerID identifies a scheduled action.
type TimerID uint64

type timerEntry struct {
	id       TimerID
	fireAt   float64
	seq      uint64
	interval float64 // > 0 re-arms the entry after it runs
	action   func(now float64)
}

// Scheduler is a deterministic timer queue stepped by the game loop.
// Entries are kept sorted by fire time, then by insertion order, and only
// run from RunDue, so the whole simulation advances on one goroutine.
type Scheduler struct {
	entries []*timerEntry
	seq     uint64
	nextID  TimerID
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After schedules fn to run once, delay seconds after now.
func (s *Scheduler) After(now, delay float64, fn func(now float64)) TimerID {
	return s.add(now+delay, 0, fn)
}

// Every schedules fn to run first at now+first and then every interval
// seconds until cancelled. interval must be positive.
func (s *Scheduler) Every(now, first, interval float64, fn func(now float64)) TimerID {
	if interval <= 0 {
		return s.After(now, first, fn)
	}
	return s.add(now+first, interval, fn)
}

func (s *Scheduler) add(fireAt, interval float64, fn func(now float64)) TimerID {
	s.nextID++
	s.insert(&timerEntry{
		id:       s.nextID,
		fireAt:   fireAt,
		interval: interval,
		action:   fn,
	})
	return s.nextID
}

func (s *Scheduler) insert(e *timerEntry) {
	s.seq++
	e.seq = s.seq
	i := sort.Search(len(s.entries), func(i int) bool {
		o := s.entries[i]
		if o.fireAt != e.fireAt {
			return o.fireAt > e.fireAt
		}
		return o.seq > e.seq
	})
	s.entries = append(s.entries, nil)
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = e
}

// Cancel removes a pending entry. It returns false if id is not pending.
func (s *Scheduler) Cancel(id TimerID) bool {
	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every pending entry.
func (s *Scheduler) Clear() {
	s.entries = nil
}

// Len returns the number of pending entries.
func (s *Scheduler) Len() int {
	return len(s.entries)
}

// RunDue runs every entry with fireAt <= now and returns how many ran.
// Entries scheduled by a running action are run in the same call when they
// are already due. An action may call Clear or Cancel.
func (s *Scheduler) RunDue(now float64) int {
	ran := 0
	for len(s.entries) > 0 && s.entries[0].fireAt <= now {
		e := s.entries[0]
		s.entries = s.entries[1:]

		if e.interval > 0 {
			e.fireAt += e.interval
			s.insert(e)
		}

		e.action(now)
		ran++
	}
	return ran
}
