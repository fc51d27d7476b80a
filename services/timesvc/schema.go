package timesvc

import (
	"time"

	"github.com/praxis-ledger/praxis/common"
	"github.com/praxis-ledger/praxis/storage"
)

const (
	consolidatedTimeKey = "timesvc.time"
	configKey           = "timesvc.config"
	validatorTimePrefix = "timesvc.validators/"
)

var (
	consolidatedEntry = storage.NewEntry[int64](consolidatedTimeKey, common.Int64Serializer{})
)

// Schema is the storage layout of the time service: one entry per
// validator holding its latest reported time, and one entry holding
// the consolidated time agreed on by the policy.
type Schema struct {
	reader storage.Reader
}

// NewSchema opens the schema for reading through the given view.
func NewSchema(reader storage.Reader) Schema {
	return Schema{reader: reader}
}

// ConsolidatedTime returns the currently agreed time. exists is false
// while too few validators have reported for the policy to yield a
// value.
func (s Schema) ConsolidatedTime() (value time.Time, exists bool, err error) {
	nanos, exists, err := consolidatedEntry.Get(s.reader)
	if err != nil || !exists {
		return time.Time{}, false, err
	}
	return time.Unix(0, nanos).UTC(), true, nil
}

// ValidatorTime returns the latest time reported by the given
// validator.
func (s Schema) ValidatorTime(key common.PublicKey) (value time.Time, exists bool, err error) {
	nanos, exists, err := validatorEntry(key).Get(s.reader)
	if err != nil || !exists {
		return time.Time{}, false, err
	}
	return time.Unix(0, nanos).UTC(), true, nil
}

// Config returns the validator-set policy the instance was configured
// with.
func (s Schema) Config() (cfg Config, exists bool, err error) {
	data, err := s.reader.Get([]byte(configKey))
	if err != nil || data == nil {
		return Config{}, false, err
	}
	cfg, err = ConfigFromBytes(data)
	if err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}

func validatorEntry(key common.PublicKey) storage.Entry[int64] {
	name := validatorTimePrefix + string(key[:])
	return storage.NewEntry[int64](name, common.Int64Serializer{})
}
