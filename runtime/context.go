package runtime

import (
	"github.com/praxis-ledger/praxis/storage"
)

// ExecutionContext is the per-call capability object threading the
// active fork, the caller's identity, and re-entrant call access
// through the dispatcher back to services.
//
// A context is scoped to one fork and one call chain. It exclusively
// lends mutable access to the fork to the currently executing method;
// it must not be retained beyond the call that created it.
type ExecutionContext struct {
	dispatcher *Dispatcher
	fork       *storage.Fork
	caller     Caller
	instance   InstanceDescriptor
}

// NewExecutionContext creates the top-level context of a call chain,
// binding the fork and the initiating identity.
func NewExecutionContext(dispatcher *Dispatcher, fork *storage.Fork, caller Caller) *ExecutionContext {
	return &ExecutionContext{
		dispatcher: dispatcher,
		fork:       fork,
		caller:     caller,
	}
}

// Fork provides mutable access to the call chain's shared fork.
func (c *ExecutionContext) Fork() *storage.Fork {
	return c.fork
}

// Caller provides the identity that initiated the current call.
func (c *ExecutionContext) Caller() Caller {
	return c.caller
}

// Instance describes the currently executing service instance. It is
// the zero descriptor for the top-level driver context.
func (c *ExecutionContext) Instance() InstanceDescriptor {
	return c.instance
}

// Call re-enters the dispatcher on the same fork, so the callee joins
// this chain's atomicity scope: its writes are visible to the caller's
// continuation, and a failure anywhere leaves the whole chain's
// buffered writes unmerged. The callee observes the current instance
// as its caller.
func (c *ExecutionContext) Call(call CallInfo, payload []byte) error {
	child := &ExecutionContext{
		dispatcher: c.dispatcher,
		fork:       c.fork,
		caller:     CallerService(c.instance.ID),
	}
	return c.dispatcher.Call(child, call, payload)
}

// withInstance derives the context the resolved target executes in.
func (c *ExecutionContext) withInstance(instance InstanceDescriptor) *ExecutionContext {
	callee := *c
	callee.instance = instance
	return &callee
}
