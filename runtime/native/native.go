// Package native provides the built-in execution backend hosting
// statically linked service implementations. Services are registered
// through factories before their artifacts are deployed; method
// payloads are decoded by the handlers declared in each service's
// method table.
package native

import (
	"fmt"

	"github.com/praxis-ledger/praxis/common"
	"github.com/praxis-ledger/praxis/runtime"
	"github.com/praxis-ledger/praxis/storage"
)

const (
	// ErrNoFactory is returned when deploying an artifact no service
	// factory was registered for.
	ErrNoFactory = common.ConstError("no service factory registered for artifact")
	// ErrNotDeployed is returned when starting an instance of an
	// artifact that was not deployed in this runtime.
	ErrNotDeployed = common.ConstError("artifact not deployed in native runtime")
	// ErrNotStarted is returned when executing a call on an instance
	// this runtime has not started.
	ErrNotStarted = common.ConstError("instance not started in native runtime")
)

// Method is one named operation of a service. The handler decodes the
// raw payload per the method's schema and invokes the service logic.
type Method struct {
	Name string
	Fn   func(ctx *runtime.ExecutionContext, payload []byte) error
}

// MethodTable maps method ids to their handlers. The table defines the
// callable surface of one artifact.
type MethodTable map[common.MethodID]Method

// Service is a unit of business logic hosted by the native runtime.
type Service interface {
	// Configure is the one-time configuration hook run when an
	// instance is started, against the start operation's fork and the
	// opaque constructor parameters.
	Configure(descriptor runtime.InstanceDescriptor, fork *storage.Fork, params []byte) error

	// Methods declares the callable operations of this service.
	Methods() MethodTable
}

// ServiceFactory creates service instances for one artifact.
type ServiceFactory interface {
	// ArtifactID names the artifact this factory implements.
	ArtifactID() runtime.ArtifactID

	// New creates a fresh, unconfigured service instance.
	New() Service
}

// Runtime is the native in-process execution backend.
type Runtime struct {
	factories map[runtime.ArtifactID]ServiceFactory
	deployed  map[runtime.ArtifactID]ServiceFactory
	instances map[common.InstanceID]*startedService
}

type startedService struct {
	descriptor runtime.InstanceDescriptor
	service    Service
	methods    MethodTable
}

// NewRuntime creates an empty native runtime.
func NewRuntime() *Runtime {
	return &Runtime{
		factories: make(map[runtime.ArtifactID]ServiceFactory),
		deployed:  make(map[runtime.ArtifactID]ServiceFactory),
		instances: make(map[common.InstanceID]*startedService),
	}
}

// AddServiceFactory registers the factory of a statically linked
// service, making its artifact deployable.
func (r *Runtime) AddServiceFactory(factory ServiceFactory) {
	r.factories[factory.ArtifactID()] = factory
}

func (r *Runtime) ID() runtime.RuntimeID {
	return runtime.NativeRuntimeID
}

// DeployArtifact validates that a factory for the artifact is linked
// into this binary. The deploy spec is ignored; native artifacts carry
// no deployment metadata.
func (r *Runtime) DeployArtifact(id runtime.ArtifactID, deploySpec []byte) error {
	factory, exists := r.factories[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNoFactory, id)
	}
	r.deployed[id] = factory
	return nil
}

// StartInstance creates a service instance from a deployed artifact
// and runs its configuration hook. The instance is retained only if
// the hook succeeds.
func (r *Runtime) StartInstance(fork *storage.Fork, spec runtime.InstanceSpec, params []byte) error {
	factory, exists := r.deployed[spec.Artifact]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotDeployed, spec.Artifact)
	}
	service := factory.New()
	descriptor := spec.Descriptor()
	if err := service.Configure(descriptor, fork, params); err != nil {
		return err
	}
	r.instances[spec.ID] = &startedService{
		descriptor: descriptor,
		service:    service,
		methods:    service.Methods(),
	}
	return nil
}

// Execute resolves the target method and invokes its handler with the
// given context and raw payload.
func (r *Runtime) Execute(ctx *runtime.ExecutionContext, call runtime.CallInfo, payload []byte) error {
	instance, exists := r.instances[call.InstanceID]
	if !exists {
		return fmt.Errorf("%w: %d", ErrNotStarted, call.InstanceID)
	}
	method, exists := instance.methods[call.MethodID]
	if !exists {
		return fmt.Errorf("%w: %d on instance %q", runtime.ErrUnknownMethod, call.MethodID, instance.descriptor.Name)
	}
	return method.Fn(ctx, payload)
}
