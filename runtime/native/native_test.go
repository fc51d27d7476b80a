package native

import (
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/praxis-ledger/praxis/common"
	"github.com/praxis-ledger/praxis/runtime"
	"github.com/praxis-ledger/praxis/storage"
	"github.com/praxis-ledger/praxis/storage/memory"
)

const (
	methodPut   common.MethodID = 0
	methodRelay common.MethodID = 1
)

func echoArtifact() runtime.ArtifactID {
	return runtime.ArtifactID{Runtime: runtime.NativeRuntimeID, Name: "echo", Version: "1.0.0"}
}

// echoFactory creates instances of a small test service storing its
// configuration and method payloads in the schema of its own name.
type echoFactory struct{}

func (echoFactory) ArtifactID() runtime.ArtifactID {
	return echoArtifact()
}

func (echoFactory) New() Service {
	return &echoService{}
}

type echoService struct {
	name string
}

func (s *echoService) Configure(descriptor runtime.InstanceDescriptor, fork *storage.Fork, params []byte) error {
	if string(params) == "reject" {
		return fmt.Errorf("rejected configuration")
	}
	s.name = descriptor.Name
	fork.Put([]byte("init/"+descriptor.Name), params)
	return nil
}

func (s *echoService) Methods() MethodTable {
	return MethodTable{
		methodPut:   {Name: "put", Fn: s.put},
		methodRelay: {Name: "relay", Fn: s.relay},
	}
}

// put stores the payload under the instance's own name.
func (s *echoService) put(ctx *runtime.ExecutionContext, payload []byte) error {
	ctx.Fork().Put([]byte("data/"+s.name), payload)
	return nil
}

// relay stores the payload and forwards it to the put method of the
// instance named in the first four payload bytes.
func (s *echoService) relay(ctx *runtime.ExecutionContext, payload []byte) error {
	if len(payload) < 4 {
		return runtime.NewDecodeError(fmt.Errorf("payload too short"))
	}
	target := common.InstanceID(binary.BigEndian.Uint32(payload))
	ctx.Fork().Put([]byte("data/"+s.name), payload[4:])
	return ctx.Call(runtime.CallInfo{InstanceID: target, MethodID: methodPut}, payload[4:])
}

func TestRuntime_DeployRequiresARegisteredFactory(t *testing.T) {
	r := NewRuntime()
	err := r.DeployArtifact(echoArtifact(), nil)
	if !errors.Is(err, ErrNoFactory) {
		t.Errorf("deployment without a factory was not rejected, got %v", err)
	}
}

func TestRuntime_StartRequiresADeployedArtifact(t *testing.T) {
	r := NewRuntime()
	r.AddServiceFactory(echoFactory{})

	db := memory.NewDatabase()
	fork, err := db.Fork()
	if err != nil {
		t.Fatalf("failed to create fork; %s", err)
	}
	defer fork.Release()

	spec := runtime.InstanceSpec{Artifact: echoArtifact(), ID: 1, Name: "echo-1"}
	if err := r.StartInstance(fork, spec, nil); !errors.Is(err, ErrNotDeployed) {
		t.Errorf("start without deployment was not rejected, got %v", err)
	}
}

func TestRuntime_RejectedConfigurationIsNotRetained(t *testing.T) {
	r := NewRuntime()
	r.AddServiceFactory(echoFactory{})
	if err := r.DeployArtifact(echoArtifact(), nil); err != nil {
		t.Fatalf("failed to deploy artifact; %s", err)
	}

	db := memory.NewDatabase()
	fork, err := db.Fork()
	if err != nil {
		t.Fatalf("failed to create fork; %s", err)
	}
	defer fork.Release()

	spec := runtime.InstanceSpec{Artifact: echoArtifact(), ID: 1, Name: "echo-1"}
	if err := r.StartInstance(fork, spec, []byte("reject")); err == nil {
		t.Fatalf("rejected configuration did not fail the start")
	}

	dispatcher := runtime.NewDispatcher(r)
	ctx := runtime.NewExecutionContext(dispatcher, fork, runtime.CallerBlockchain())
	call := runtime.CallInfo{InstanceID: spec.ID, MethodID: methodPut}
	if err := r.Execute(ctx, call, nil); !errors.Is(err, ErrNotStarted) {
		t.Errorf("call on a failed instance was not rejected, got %v", err)
	}
}

func TestRuntime_ExecuteFailsForAnUnknownMethod(t *testing.T) {
	r := NewRuntime()
	r.AddServiceFactory(echoFactory{})
	if err := r.DeployArtifact(echoArtifact(), nil); err != nil {
		t.Fatalf("failed to deploy artifact; %s", err)
	}

	db := memory.NewDatabase()
	fork, err := db.Fork()
	if err != nil {
		t.Fatalf("failed to create fork; %s", err)
	}
	defer fork.Release()

	spec := runtime.InstanceSpec{Artifact: echoArtifact(), ID: 1, Name: "echo-1"}
	if err := r.StartInstance(fork, spec, nil); err != nil {
		t.Fatalf("failed to start instance; %s", err)
	}

	dispatcher := runtime.NewDispatcher(r)
	ctx := runtime.NewExecutionContext(dispatcher, fork, runtime.CallerBlockchain())
	call := runtime.CallInfo{InstanceID: spec.ID, MethodID: 42}
	if err := r.Execute(ctx, call, nil); !errors.Is(err, runtime.ErrUnknownMethod) {
		t.Errorf("unknown method was not rejected, got %v", err)
	}
}

func TestRuntime_ServicesCallEachOtherWithinOneAtomicUnit(t *testing.T) {
	r := NewRuntime()
	r.AddServiceFactory(echoFactory{})
	dispatcher := runtime.NewDispatcher(r)

	db := memory.NewDatabase()
	fork, err := db.Fork()
	if err != nil {
		t.Fatalf("failed to create fork; %s", err)
	}
	first := runtime.InstanceSpec{Artifact: echoArtifact(), ID: 1, Name: "echo-1"}
	second := runtime.InstanceSpec{Artifact: echoArtifact(), ID: 2, Name: "echo-2"}
	if err := dispatcher.DeployArtifact(fork, echoArtifact(), nil); err != nil {
		t.Fatalf("failed to deploy artifact; %s", err)
	}
	for _, spec := range []runtime.InstanceSpec{first, second} {
		if err := dispatcher.StartService(fork, spec, []byte("cfg-"+spec.Name)); err != nil {
			t.Fatalf("failed to start service %q; %s", spec.Name, err)
		}
	}
	if err := db.Merge(fork.IntoPatch()); err != nil {
		t.Fatalf("failed to merge genesis fork; %s", err)
	}

	fork, err = db.Fork()
	if err != nil {
		t.Fatalf("failed to create fork; %s", err)
	}
	payload := binary.BigEndian.AppendUint32(nil, uint32(second.ID))
	payload = append(payload, []byte("hello")...)
	ctx := runtime.NewExecutionContext(dispatcher, fork, runtime.CallerBlockchain())
	call := runtime.CallInfo{InstanceID: first.ID, MethodID: methodRelay}
	if err := dispatcher.Call(ctx, call, payload); err != nil {
		t.Fatalf("relayed call failed; %s", err)
	}
	if err := db.Merge(fork.IntoPatch()); err != nil {
		t.Fatalf("failed to merge fork; %s", err)
	}

	snapshot, err := db.Snapshot()
	if err != nil {
		t.Fatalf("failed to create snapshot; %s", err)
	}
	defer snapshot.Release()
	tests := map[string]string{
		"init/echo-1": "cfg-echo-1",
		"init/echo-2": "cfg-echo-2",
		"data/echo-1": "hello",
		"data/echo-2": "hello",
	}
	for key, want := range tests {
		value, err := snapshot.Get([]byte(key))
		if err != nil {
			t.Fatalf("failed to read key %q; %s", key, err)
		}
		if string(value) != want {
			t.Errorf("unexpected value for key %q, wanted %q, got %q", key, want, value)
		}
	}
}

func TestRuntime_FailedNestedCallDiscardsAllWrites(t *testing.T) {
	r := NewRuntime()
	r.AddServiceFactory(echoFactory{})
	dispatcher := runtime.NewDispatcher(r)

	db := memory.NewDatabase()
	fork, err := db.Fork()
	if err != nil {
		t.Fatalf("failed to create fork; %s", err)
	}
	spec := runtime.InstanceSpec{Artifact: echoArtifact(), ID: 1, Name: "echo-1"}
	if err := dispatcher.DeployArtifact(fork, echoArtifact(), nil); err != nil {
		t.Fatalf("failed to deploy artifact; %s", err)
	}
	if err := dispatcher.StartService(fork, spec, nil); err != nil {
		t.Fatalf("failed to start service; %s", err)
	}
	if err := db.Merge(fork.IntoPatch()); err != nil {
		t.Fatalf("failed to merge genesis fork; %s", err)
	}

	// relay to an instance that does not exist
	fork, err = db.Fork()
	if err != nil {
		t.Fatalf("failed to create fork; %s", err)
	}
	payload := binary.BigEndian.AppendUint32(nil, 42)
	payload = append(payload, []byte("doomed")...)
	ctx := runtime.NewExecutionContext(dispatcher, fork, runtime.CallerBlockchain())
	call := runtime.CallInfo{InstanceID: spec.ID, MethodID: methodRelay}
	if err := dispatcher.Call(ctx, call, payload); !errors.Is(err, runtime.ErrUnknownInstance) {
		t.Fatalf("nested failure was not propagated, got %v", err)
	}
	fork.Release()

	snapshot, err := db.Snapshot()
	if err != nil {
		t.Fatalf("failed to create snapshot; %s", err)
	}
	defer snapshot.Release()
	if exists, _ := snapshot.Has([]byte("data/echo-1")); exists {
		t.Errorf("write of the failed chain survived the discard")
	}
}
