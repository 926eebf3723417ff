// client.go - Injected RPC capability interface and address type.

package ledger

import (
	"context"
	"fmt"

	"github.com/mr-tron/base58"
)

// Address is a 32-byte account address with a base58 text form.
type Address [32]byte

// ParseAddress decodes a base58 address.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw, err := base58.Decode(s)
	if err != nil {
		return a, fmt.Errorf("ledger: address %q: %w", s, err)
	}
	if len(raw) != len(a) {
		return a, fmt.Errorf("ledger: address %q: expected 32 bytes, got %d", s, len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// String returns the base58 form.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// IsZero reports the all-zero address (the system program).
func (a Address) IsZero() bool {
	return a == Address{}
}

// AccountMeta names one account an instruction touches and its role.
type AccountMeta struct {
	Address  Address
	Signer   bool
	Writable bool
}

// Instruction is an encoded instruction plus its ordered account list,
// ready for an external transaction-building layer to sign and submit.
type Instruction struct {
	ProgramID Address
	Accounts  []AccountMeta
	Data      []byte
}

// Filter narrows a program-account query: match Bytes at Offset, and/or a
// fixed account size when DataSize is non-zero.
type Filter struct {
	Offset   int
	Bytes    []byte
	DataSize int
}

// ProgramAccount is one result of a program-account query.
type ProgramAccount struct {
	Address Address
	Data    []byte
}

// Client is the capability interface the core depends on. GetAccountData
// reports a missing account as (nil, false, nil), not an error; transport
// failures are errors and safe to retry.
type Client interface {
	GetAccountData(ctx context.Context, addr Address) (data []byte, exists bool, err error)
	GetProgramAccounts(ctx context.Context, program Address, filters []Filter) ([]ProgramAccount, error)
	SendTransaction(ctx context.Context, instructions []Instruction) (confirmation string, err error)
}

// MissingAccountError reports an account the protocol requires but the
// ledger does not have, e.g. a closed tree or a never-created buffer.
type MissingAccountError struct {
	Address Address
	What    string
}

func (e *MissingAccountError) Error() string {
	return fmt.Sprintf("ledger: %s account %s does not exist", e.What, e.Address)
}
