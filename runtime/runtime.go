package runtime

import (
	"fmt"

	"github.com/praxis-ledger/praxis/common"
	"github.com/praxis-ledger/praxis/storage"
)

//go:generate mockgen -source runtime.go -destination runtime_mock.go -package runtime

// RuntimeID identifies an execution backend within a node.
type RuntimeID uint32

// NativeRuntimeID is the identifier of the built-in native backend
// hosting statically linked services.
const NativeRuntimeID RuntimeID = 0

// ArtifactID names a deployable unit of service logic. The runtime id
// routes deployment to the owning backend; name and version make the
// identifier unique among all deployed artifacts.
type ArtifactID struct {
	Runtime RuntimeID
	Name    string
	Version string
}

func (a ArtifactID) String() string {
	return fmt.Sprintf("%d:%s:%s", a.Runtime, a.Name, a.Version)
}

// InstanceSpec describes a named, running instantiation of a deployed
// artifact. Both the numeric id and the name are unique among active
// instances.
type InstanceSpec struct {
	Artifact ArtifactID
	ID       common.InstanceID
	Name     string
}

// Descriptor provides the identity part of this spec as handed to the
// running service.
func (s InstanceSpec) Descriptor() InstanceDescriptor {
	return InstanceDescriptor{ID: s.ID, Name: s.Name}
}

// InstanceDescriptor identifies a service instance to its own code.
type InstanceDescriptor struct {
	ID   common.InstanceID
	Name string
}

// CallInfo is the routing key of an invocation. The method id is an
// artifact-defined enumeration, meaningful only relative to the target
// instance's artifact.
type CallInfo struct {
	InstanceID common.InstanceID
	MethodID   common.MethodID
}

// Runtime is the capability set every execution backend provides. The
// dispatcher only ever talks to this interface, never to a concrete
// backend type, so additional backends plug in without touching the
// dispatcher.
type Runtime interface {
	// ID provides the identifier artifact ids use to select this
	// backend.
	ID() RuntimeID

	// DeployArtifact validates and loads an artifact from its
	// backend-specific deployment data. Once deployed, the artifact
	// stays deployed for the lifetime of the node process.
	DeployArtifact(id ArtifactID, deploySpec []byte) error

	// StartInstance instantiates a service from a deployed artifact
	// and runs its one-time configuration hook against the fork with
	// the opaque constructor parameters. On failure the instance is
	// not retained, but writes the hook buffered in the fork remain
	// there until the caller discards it.
	StartInstance(fork *storage.Fork, spec InstanceSpec, params []byte) error

	// Execute decodes the payload per the target method's schema and
	// invokes the method with the given execution context.
	Execute(ctx *ExecutionContext, call CallInfo, payload []byte) error
}
