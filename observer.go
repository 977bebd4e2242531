package loghub

// LevelChange captures an update of the hub's advisory level.
type LevelChange struct {
	Old Level
	New Level
	// NextSeq is the sequence number the next written entry will get. On
	// attach, entries below it are replayed history.
	NextSeq uint64
}

// LevelObserver is implemented by sinks that mirror the hub level into their
// own backend filter. OnLevelChange is called under the hub lock for every
// attached sink that implements it, and once on attach with Old == New.
type LevelObserver interface {
	OnLevelChange(c LevelChange)
}
