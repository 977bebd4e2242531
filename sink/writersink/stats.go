package writersink

import "sync/atomic"

type stats struct {
	written      atomic.Uint64
	loggedErrors atomic.Uint64
	dropped      atomic.Uint64
}

// StatsSnapshot is a point-in-time counters snapshot.
type StatsSnapshot struct {
	Written      uint64
	LoggedErrors uint64
	Dropped      uint64
}

func (s *stats) snapshot() StatsSnapshot {
	return StatsSnapshot{
		Written:      s.written.Load(),
		LoggedErrors: s.loggedErrors.Load(),
		Dropped:      s.dropped.Load(),
	}
}
