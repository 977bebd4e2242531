package decorate

import (
	"os"

	"github.com/google/uuid"

	"github.com/trickstertwo/loghub"
)

// InstanceInfo identifies the running process.
type InstanceInfo struct {
	ID       string
	Hostname string
	PID      int
}

func (i InstanceInfo) LogFields() []loghub.Field {
	return []loghub.Field{
		loghub.Str("instance", i.ID),
		loghub.Str("host", i.Hostname),
		loghub.Int64("pid", int64(i.PID)),
	}
}

// NewInstanceInfo generates a fresh instance id. The hostname is left empty
// when the OS cannot report it.
func NewInstanceInfo() InstanceInfo {
	host, _ := os.Hostname()
	return InstanceInfo{ID: uuid.NewString(), Hostname: host, PID: os.Getpid()}
}

// Instance attaches info to every entry.
func Instance(info InstanceInfo) loghub.Decorator {
	return loghub.DecoratorFunc(func(*loghub.Entry) (any, error) { return info, nil })
}
