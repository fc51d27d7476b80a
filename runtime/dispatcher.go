package runtime

import (
	"fmt"

	"github.com/praxis-ledger/praxis/common"
	"github.com/praxis-ledger/praxis/storage"
	"github.com/rs/zerolog"
)

// Dispatcher orchestrates the execution backends of a node. It owns
// the artifact and instance registry, routes deployment, configuration
// and call requests to the owning runtime, and enforces that all calls
// of one chain share a single fork and therefore a single atomicity
// boundary.
//
// The registry is mutated only during deploy/start operations, which
// the surrounding node serializes with transaction execution.
type Dispatcher struct {
	runtimes  map[RuntimeID]Runtime
	artifacts map[ArtifactID]RuntimeID
	instances map[common.InstanceID]InstanceSpec
	names     map[string]common.InstanceID
	log       zerolog.Logger
}

// NewDispatcher creates a dispatcher owning the given execution
// backends.
func NewDispatcher(runtimes ...Runtime) *Dispatcher {
	d := &Dispatcher{
		runtimes:  make(map[RuntimeID]Runtime, len(runtimes)),
		artifacts: make(map[ArtifactID]RuntimeID),
		instances: make(map[common.InstanceID]InstanceSpec),
		names:     make(map[string]common.InstanceID),
		log:       zerolog.Nop(),
	}
	for _, runtime := range runtimes {
		d.runtimes[runtime.ID()] = runtime
	}
	return d
}

// SetLogger installs a logger for deployment, start and call events.
// The dispatcher logs nothing by default.
func (d *Dispatcher) SetLogger(log zerolog.Logger) {
	d.log = log
}

// DeployArtifact asks the owning runtime to validate and load the
// artifact and, on success, records it in the registry and in the
// fork's audit entries. The artifact identifier must not be registered
// yet.
func (d *Dispatcher) DeployArtifact(fork *storage.Fork, id ArtifactID, deploySpec []byte) error {
	if _, exists := d.artifacts[id]; exists {
		return &DeployError{Artifact: id, Err: ErrArtifactExists}
	}
	runtime, exists := d.runtimes[id.Runtime]
	if !exists {
		return &DeployError{Artifact: id, Err: fmt.Errorf("%w: %d", ErrUnknownRuntime, id.Runtime)}
	}
	if err := runtime.DeployArtifact(id, deploySpec); err != nil {
		return &DeployError{Artifact: id, Err: err}
	}
	d.artifacts[id] = id.Runtime
	writeArtifactRecord(fork, id, deploySpec)
	d.log.Info().Str("artifact", id.String()).Msg("artifact deployed")
	return nil
}

// StartService validates the uniqueness of the instance id and name,
// asks the owning runtime to instantiate the service and run its
// configuration hook against the fork, and registers the instance.
//
// On failure the instance is not registered; any writes the hook
// buffered remain only in the fork and vanish if the caller discards
// it.
func (d *Dispatcher) StartService(fork *storage.Fork, spec InstanceSpec, params []byte) error {
	if _, exists := d.instances[spec.ID]; exists {
		return &StartError{Spec: spec, Err: ErrInstanceIDExists}
	}
	if _, exists := d.names[spec.Name]; exists {
		return &StartError{Spec: spec, Err: ErrInstanceNameExists}
	}
	runtimeID, exists := d.artifacts[spec.Artifact]
	if !exists {
		return &StartError{Spec: spec, Err: fmt.Errorf("%w: %s", ErrUnknownArtifact, spec.Artifact)}
	}
	if err := d.runtimes[runtimeID].StartInstance(fork, spec, params); err != nil {
		return &StartError{Spec: spec, Err: err}
	}
	d.instances[spec.ID] = spec
	d.names[spec.Name] = spec.ID
	writeInstanceRecord(fork, spec)
	d.log.Info().
		Str("artifact", spec.Artifact.String()).
		Uint32("instance", uint32(spec.ID)).
		Str("name", spec.Name).
		Msg("service started")
	return nil
}

// Call routes the invocation to the runtime owning the target instance
// and propagates its result unchanged. The caller decides whether to
// merge or discard the context's fork.
//
// Re-entrant calls issued by the target through the context re-enter
// this method with the same fork, so a whole chain commits or rolls
// back together.
func (d *Dispatcher) Call(ctx *ExecutionContext, call CallInfo, payload []byte) error {
	spec, exists := d.instances[call.InstanceID]
	if !exists {
		return fmt.Errorf("%w: %d", ErrUnknownInstance, call.InstanceID)
	}
	runtime := d.runtimes[d.artifacts[spec.Artifact]]
	err := runtime.Execute(ctx.withInstance(spec.Descriptor()), call, payload)
	if err != nil {
		d.log.Debug().
			Uint32("instance", uint32(call.InstanceID)).
			Uint32("method", uint32(call.MethodID)).
			Stringer("caller", ctx.Caller()).
			Err(err).
			Msg("call failed")
	}
	return err
}

// Instance resolves a registered instance spec by id.
func (d *Dispatcher) Instance(id common.InstanceID) (InstanceSpec, bool) {
	spec, exists := d.instances[id]
	return spec, exists
}

// InstanceByName resolves a registered instance spec by name.
func (d *Dispatcher) InstanceByName(name string) (InstanceSpec, bool) {
	id, exists := d.names[name]
	if !exists {
		return InstanceSpec{}, false
	}
	return d.instances[id], true
}

const (
	artifactRecordPrefix = "core.artifacts/"
	instanceRecordPrefix = "core.instances/"
)

// writeArtifactRecord persists the deployment in the fork so that the
// registry contents become part of the committed chain state.
func writeArtifactRecord(fork *storage.Fork, id ArtifactID, deploySpec []byte) {
	fork.Put([]byte(artifactRecordPrefix+id.String()), deploySpec)
}

// writeInstanceRecord persists the started instance in the fork.
func writeInstanceRecord(fork *storage.Fork, spec InstanceSpec) {
	data := common.Uint32Serializer[common.InstanceID]{}.ToBytes(spec.ID)
	data = common.AppendString(data, spec.Artifact.String())
	fork.Put([]byte(instanceRecordPrefix+spec.Name), data)
}
