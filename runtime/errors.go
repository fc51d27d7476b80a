package runtime

import (
	"fmt"

	"github.com/praxis-ledger/praxis/common"
)

const (
	// ErrUnknownRuntime is returned when an artifact id names a
	// runtime no backend is registered for.
	ErrUnknownRuntime = common.ConstError("unknown runtime")
	// ErrUnknownArtifact is returned when an operation references an
	// artifact that has not been deployed.
	ErrUnknownArtifact = common.ConstError("unknown artifact")
	// ErrArtifactExists is returned when deploying an artifact id that
	// is already registered.
	ErrArtifactExists = common.ConstError("artifact already deployed")
	// ErrUnknownInstance is returned when a call references an
	// instance id with no registered spec.
	ErrUnknownInstance = common.ConstError("unknown service instance")
	// ErrInstanceIDExists is returned when starting a service with a
	// numeric id that is already in use.
	ErrInstanceIDExists = common.ConstError("service instance id already used")
	// ErrInstanceNameExists is returned when starting a service with a
	// name that is already in use.
	ErrInstanceNameExists = common.ConstError("service instance name already used")
	// ErrUnknownMethod is returned when a call references a method id
	// the target artifact does not define.
	ErrUnknownMethod = common.ConstError("unknown service method")
)

// ExecutionErrorKind distinguishes the origins of method-level
// failures.
type ExecutionErrorKind int

const (
	// ErrKindService marks an error raised by the service logic
	// itself.
	ErrKindService ExecutionErrorKind = iota
	// ErrKindDecode marks a call payload that failed to decode per the
	// target method's schema.
	ErrKindDecode
)

// ExecutionError is a structured method-level failure. It is
// propagated verbatim up through any chain of re-entrant calls; the
// code is defined by the failing service for its callers to interpret.
type ExecutionError struct {
	Kind        ExecutionErrorKind
	Code        uint8
	Description string
}

func (e *ExecutionError) Error() string {
	if e.Kind == ErrKindDecode {
		return fmt.Sprintf("execution error: malformed payload: %s", e.Description)
	}
	return fmt.Sprintf("execution error (code %d): %s", e.Code, e.Description)
}

// NewExecutionError creates a service-defined execution error.
func NewExecutionError(code uint8, description string) *ExecutionError {
	return &ExecutionError{Kind: ErrKindService, Code: code, Description: description}
}

// NewDecodeError creates the execution error reported when a call
// payload cannot be decoded.
func NewDecodeError(err error) *ExecutionError {
	return &ExecutionError{Kind: ErrKindDecode, Description: err.Error()}
}

// DeployError reports that deploying an artifact failed. The artifact
// is not registered.
type DeployError struct {
	Artifact ArtifactID
	Err      error
}

func (e *DeployError) Error() string {
	return fmt.Sprintf("failed to deploy artifact %s; %s", e.Artifact, e.Err)
}

func (e *DeployError) Unwrap() error {
	return e.Err
}

// StartError reports that starting a service instance failed, either
// because of an identifier collision or because the configuration hook
// rejected its parameters. The instance is not registered.
type StartError struct {
	Spec InstanceSpec
	Err  error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start service %q (id %d); %s", e.Spec.Name, e.Spec.ID, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}
