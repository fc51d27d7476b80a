// Package timesvc implements a Byzantine-fault-tolerant time oracle on
// top of the runtime dispatcher. Every validator periodically reports
// its wall-clock reading; the agreed time is the (f+1)-th largest of
// the reported values once more than 2f validators have reported,
// where f is the number of tolerated faulty validators. Both the
// per-validator entries and the agreed time only ever move forward.
package timesvc

import (
	"golang.org/x/exp/slices"

	"github.com/praxis-ledger/praxis/common"
	"github.com/praxis-ledger/praxis/runtime"
	"github.com/praxis-ledger/praxis/runtime/native"
	"github.com/praxis-ledger/praxis/storage"
)

const (
	// ArtifactName names the time service artifact.
	ArtifactName = "praxis-time"
	// ArtifactVersion is the version of the artifact this package
	// implements.
	ArtifactVersion = "1.0.0"

	// MethodReport is the id of the report method.
	MethodReport common.MethodID = 0
)

// Service-defined execution error codes.
const (
	CodeUnauthorized     uint8 = 0 // caller is not the reporting validator
	CodeUnknownValidator uint8 = 1 // author is not in the validator set
	CodeStaleReport      uint8 = 2 // reported time does not advance the stored one
	CodeConfigMalformed  uint8 = 3 // constructor parameters failed to parse
)

// ArtifactID names the native artifact of this service.
func ArtifactID() runtime.ArtifactID {
	return runtime.ArtifactID{
		Runtime: runtime.NativeRuntimeID,
		Name:    ArtifactName,
		Version: ArtifactVersion,
	}
}

// Factory creates time service instances for the native runtime.
type Factory struct{}

func (Factory) ArtifactID() runtime.ArtifactID {
	return ArtifactID()
}

func (Factory) New() native.Service {
	return &service{}
}

type service struct{}

// Configure stores the validator-set policy in the instance's schema.
// The policy is read back on every call, so replaying nodes derive it
// from chain state rather than from process memory.
func (s *service) Configure(descriptor runtime.InstanceDescriptor, fork *storage.Fork, params []byte) error {
	cfg, err := ConfigFromBytes(params)
	if err != nil {
		return runtime.NewExecutionError(CodeConfigMalformed, err.Error())
	}
	fork.Put([]byte(configKey), cfg.ToBytes())
	return nil
}

func (s *service) Methods() native.MethodTable {
	return native.MethodTable{
		MethodReport: {Name: "report", Fn: s.report},
	}
}

// report records one validator's wall-clock reading and recomputes the
// consolidated time.
func (s *service) report(ctx *runtime.ExecutionContext, payload []byte) error {
	tx, err := TxReportFromBytes(payload)
	if err != nil {
		return runtime.NewDecodeError(err)
	}

	author, ok := ctx.Caller().Author()
	if !ok || author != tx.Author {
		return runtime.NewExecutionError(CodeUnauthorized, "report must be signed by the reporting validator")
	}

	fork := ctx.Fork()
	schema := NewSchema(fork)
	cfg, exists, err := schema.Config()
	if err != nil {
		return err
	}
	if !exists || !slices.Contains(cfg.Validators, author) {
		return runtime.NewExecutionError(CodeUnknownValidator, "report from a key outside the validator set")
	}

	entry := validatorEntry(author)
	stored, exists, err := entry.Get(fork)
	if err != nil {
		return err
	}
	reported := tx.Time.UnixNano()
	if exists && reported <= stored {
		return runtime.NewExecutionError(CodeStaleReport, "reported time does not advance the stored one")
	}
	entry.Set(fork, reported)

	return s.consolidate(fork, cfg)
}

// consolidate recomputes the agreed time from all stored validator
// reports. The agreed value is only written when it moves forward.
func (s *service) consolidate(fork *storage.Fork, cfg Config) error {
	times := make([]int64, 0, len(cfg.Validators))
	for _, key := range cfg.Validators {
		nanos, exists, err := validatorEntry(key).Get(fork)
		if err != nil {
			return err
		}
		if exists {
			times = append(times, nanos)
		}
	}

	maxFaulty := cfg.MaxFaulty()
	if len(times) <= 2*maxFaulty {
		return nil // not enough reports to outvote the faulty minority
	}

	// descending, so index maxFaulty is the (f+1)-th largest
	slices.SortFunc(times, func(a, b int64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})
	agreed := times[maxFaulty]

	current, exists, err := consolidatedEntry.Get(fork)
	if err != nil {
		return err
	}
	if !exists || agreed > current {
		consolidatedEntry.Set(fork, agreed)
	}
	return nil
}
