// Package testkit assembles a complete in-process node - database,
// dispatcher and native runtime - for exercising services without a
// network. Blocks are created on demand: each block executes its
// transactions on one fork and merges the resulting patch, or discards
// the fork on the first failure.
package testkit

import (
	"crypto/ecdsa"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"

	"github.com/praxis-ledger/praxis/common"
	"github.com/praxis-ledger/praxis/runtime"
	"github.com/praxis-ledger/praxis/runtime/native"
	"github.com/praxis-ledger/praxis/storage"
	"github.com/praxis-ledger/praxis/storage/memory"
)

// Validator is one member of the simulated validator set.
type Validator struct {
	PublicKey common.PublicKey
	key       *ecdsa.PrivateKey
}

// GenerateValidators creates a fresh validator set of the given size.
func GenerateValidators(count int) ([]Validator, error) {
	validators := make([]Validator, count)
	for i := range validators {
		key, err := ethcrypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate validator key; %w", err)
		}
		validators[i].key = key
		copy(validators[i].PublicKey[:], ethcrypto.CompressPubkey(&key.PublicKey))
	}
	return validators, nil
}

// PublicKeys extracts the public keys of a validator set, in set order.
func PublicKeys(validators []Validator) []common.PublicKey {
	keys := make([]common.PublicKey, len(validators))
	for i, validator := range validators {
		keys[i] = validator.PublicKey
	}
	return keys
}

// Tx is one transaction submitted to a block: a call with the identity
// of its already-authenticated author.
type Tx struct {
	Author  common.PublicKey
	Call    runtime.CallInfo
	Payload []byte
}

type serviceSetup struct {
	factory native.ServiceFactory
	spec    runtime.InstanceSpec
	params  []byte
}

// Builder configures and assembles a TestKit.
type Builder struct {
	validatorCount int
	validators     []Validator
	services       []serviceSetup
	db             storage.Database
	log            zerolog.Logger
}

// NewBuilder creates a builder for a single-validator node backed by
// an in-memory database.
func NewBuilder() *Builder {
	return &Builder{
		validatorCount: 1,
		log:            zerolog.Nop(),
	}
}

// WithValidators sets the number of validators in the simulated
// network. The keys are generated when the testkit is created.
func (b *Builder) WithValidators(count int) *Builder {
	b.validatorCount = count
	b.validators = nil
	return b
}

// WithValidatorSet installs a pre-generated validator set, letting the
// caller hand the same keys to service configurations.
func (b *Builder) WithValidatorSet(validators []Validator) *Builder {
	b.validators = validators
	return b
}

// WithService schedules a service to be deployed and started in the
// genesis block.
func (b *Builder) WithService(factory native.ServiceFactory, spec runtime.InstanceSpec, params []byte) *Builder {
	b.services = append(b.services, serviceSetup{factory: factory, spec: spec, params: params})
	return b
}

// WithDatabase replaces the default in-memory database.
func (b *Builder) WithDatabase(db storage.Database) *Builder {
	b.db = db
	return b
}

// WithLogger enables logging inside the testkit and its dispatcher.
func (b *Builder) WithLogger(log zerolog.Logger) *Builder {
	b.log = log
	return b
}

// Create assembles the node and executes the genesis block deploying
// and starting the scheduled services.
func (b *Builder) Create() (*TestKit, error) {
	db := b.db
	if db == nil {
		db = memory.NewDatabase()
	}

	validators := b.validators
	if validators == nil {
		var err error
		validators, err = GenerateValidators(b.validatorCount)
		if err != nil {
			return nil, err
		}
	}

	nativeRuntime := native.NewRuntime()
	for _, setup := range b.services {
		nativeRuntime.AddServiceFactory(setup.factory)
	}
	dispatcher := runtime.NewDispatcher(nativeRuntime)
	dispatcher.SetLogger(b.log)

	fork, err := db.Fork()
	if err != nil {
		return nil, err
	}
	for _, setup := range b.services {
		if err := dispatcher.DeployArtifact(fork, setup.factory.ArtifactID(), nil); err != nil {
			fork.Release()
			return nil, err
		}
		if err := dispatcher.StartService(fork, setup.spec, setup.params); err != nil {
			fork.Release()
			return nil, err
		}
	}
	if err := db.Merge(fork.IntoPatch()); err != nil {
		return nil, err
	}

	return &TestKit{
		db:         db,
		dispatcher: dispatcher,
		validators: validators,
		log:        b.log,
	}, nil
}

// TestKit is an assembled in-process node.
type TestKit struct {
	db         storage.Database
	dispatcher *runtime.Dispatcher
	validators []Validator
	height     uint64
	log        zerolog.Logger
}

// Validators provides the simulated validator set.
func (t *TestKit) Validators() []Validator {
	return t.validators
}

// Dispatcher provides the node's dispatcher, for driving calls outside
// of block creation.
func (t *TestKit) Dispatcher() *runtime.Dispatcher {
	return t.dispatcher
}

// Database provides the node's underlying store.
func (t *TestKit) Database() storage.Database {
	return t.db
}

// Height returns the number of committed blocks, the genesis block
// excluded.
func (t *TestKit) Height() uint64 {
	return t.height
}

// Snapshot returns an isolated view of the latest committed state.
func (t *TestKit) Snapshot() (storage.Snapshot, error) {
	return t.db.Snapshot()
}

// CreateBlock executes the transactions in submission order on a fresh
// fork and merges the resulting patch. On the first failing
// transaction the fork is discarded, no writes of any transaction in
// the block survive, and the error is returned.
func (t *TestKit) CreateBlock(txs ...Tx) error {
	fork, err := t.db.Fork()
	if err != nil {
		return err
	}
	for _, tx := range txs {
		ctx := runtime.NewExecutionContext(t.dispatcher, fork, runtime.CallerTransaction(tx.Author))
		if err := t.dispatcher.Call(ctx, tx.Call, tx.Payload); err != nil {
			fork.Release()
			return err
		}
	}
	patch := fork.IntoPatch()
	hash := patch.Hash()
	if err := t.db.Merge(patch); err != nil {
		return err
	}
	t.height++
	t.log.Info().
		Uint64("height", t.height).
		Hex("patch", hash[:8]).
		Int("changes", patch.Size()).
		Msg("block committed")
	return nil
}
