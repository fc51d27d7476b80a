package runtime

import (
	"fmt"

	"github.com/praxis-ledger/praxis/common"
)

// CallerKind enumerates the possible origins of a call.
type CallerKind int

const (
	// CallerKindBlockchain marks an unauthenticated system call issued
	// by the blockchain core itself.
	CallerKindBlockchain CallerKind = iota
	// CallerKindTransaction marks a call backed by a transaction
	// signed by an external actor.
	CallerKindTransaction
	// CallerKindService marks a call issued by another service
	// instance within the same call chain.
	CallerKindService
)

// Caller is the tagged identity of who initiated the current call.
// Nested calls made through the execution context always carry the
// service identity of the originating instance; the blockchain
// identity cannot be forged by services.
type Caller struct {
	kind     CallerKind
	author   common.PublicKey
	instance common.InstanceID
}

// CallerBlockchain creates the identity of a top-level system call.
func CallerBlockchain() Caller {
	return Caller{kind: CallerKindBlockchain}
}

// CallerTransaction creates the identity of a call backed by a signed
// transaction. The author is the already-verified signer key supplied
// by the identity layer.
func CallerTransaction(author common.PublicKey) Caller {
	return Caller{kind: CallerKindTransaction, author: author}
}

// CallerService creates the identity of a service-to-service call.
func CallerService(instance common.InstanceID) Caller {
	return Caller{kind: CallerKindService, instance: instance}
}

// Kind provides the origin tag of this caller.
func (c Caller) Kind() CallerKind {
	return c.kind
}

// Author provides the transaction signer key, if this call was backed
// by a signed transaction.
func (c Caller) Author() (common.PublicKey, bool) {
	return c.author, c.kind == CallerKindTransaction
}

// ServiceInstance provides the originating instance id, if this call
// was issued by another service.
func (c Caller) ServiceInstance() (common.InstanceID, bool) {
	return c.instance, c.kind == CallerKindService
}

func (c Caller) String() string {
	switch c.kind {
	case CallerKindBlockchain:
		return "blockchain"
	case CallerKindTransaction:
		return fmt.Sprintf("transaction:%x", c.author[:4])
	case CallerKindService:
		return fmt.Sprintf("service:%d", c.instance)
	}
	return "unknown"
}
