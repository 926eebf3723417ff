// buffer.go - Create, upload, verify and close proof buffer accounts.

package chadbuffer

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/ledger"
)

// Buffer program constants, shared with the on-ledger side.
const (
	HeaderSize = 32
	ChunkSize  = 900

	opInitialize byte = 0
	opWrite      byte = 1
	opClose      byte = 2
)

// ErrEmptyPayload rejects uploads and verifies with nothing to write.
var ErrEmptyPayload = errors.New("chadbuffer: empty payload")

// Handle identifies one live buffer: its account, the authority allowed to
// write and close it, and the payload capacity it was created with.
type Handle struct {
	Address   ledger.Address
	Authority ledger.Address
	Size      int
}

// MismatchError reports a verify failure at the first differing payload
// byte. The buffer must not be referenced by a spend instruction.
type MismatchError struct {
	Address ledger.Address
	Offset  int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("chadbuffer: buffer %s differs from payload at offset %d", e.Address, e.Offset)
}

// CloseError wraps a failed close. Closing only reclaims the rent deposit,
// so callers may log it and move on.
type CloseError struct {
	Address ledger.Address
	Err     error
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("chadbuffer: close buffer %s: %v", e.Address, e.Err)
}

func (e *CloseError) Unwrap() error { return e.Err }

// Manager drives buffer accounts through the injected ledger client.
// Account key generation is injected too: the external signing layer owns
// keypairs, the core only needs fresh addresses it can ask to sign.
type Manager struct {
	client     ledger.Client
	program    ledger.Address
	authority  ledger.Address
	newAddress func() (ledger.Address, error)
	log        zerolog.Logger
}

// NewManager builds a buffer manager. newAddress must return an address the
// transaction layer can sign for.
func NewManager(client ledger.Client, program, authority ledger.Address, newAddress func() (ledger.Address, error), log zerolog.Logger) *Manager {
	return &Manager{
		client:     client,
		program:    program,
		authority:  authority,
		newAddress: newAddress,
		log:        log,
	}
}

// Create allocates a buffer account sized exactly header+size and returns
// its handle.
func (m *Manager) Create(ctx context.Context, size int) (*Handle, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chadbuffer: create: size %d", size)
	}
	addr, err := m.newAddress()
	if err != nil {
		return nil, fmt.Errorf("chadbuffer: create: new address: %w", err)
	}

	data := make([]byte, 5)
	data[0] = opInitialize
	binary.LittleEndian.PutUint32(data[1:], uint32(size))
	ix := ledger.Instruction{
		ProgramID: m.program,
		Accounts: []ledger.AccountMeta{
			{Address: addr, Signer: true, Writable: true},
			{Address: m.authority, Signer: true, Writable: true},
		},
		Data: data,
	}
	if _, err := m.client.SendTransaction(ctx, []ledger.Instruction{ix}); err != nil {
		return nil, fmt.Errorf("chadbuffer: create: %w", err)
	}
	m.log.Debug().Str("buffer", addr.String()).Int("size", size).Msg("created proof buffer")
	return &Handle{Address: addr, Authority: m.authority, Size: size}, nil
}

// Upload writes the payload in offset-keyed chunks. onProgress, when
// non-nil, is called after each confirmed chunk with (written, total).
// A failed chunk can be re-driven by calling Upload again; already-written
// chunks are simply overwritten with identical bytes.
func (m *Manager) Upload(ctx context.Context, h *Handle, payload []byte, onProgress func(written, total int)) error {
	if len(payload) == 0 {
		return ErrEmptyPayload
	}
	if len(payload) > h.Size {
		return fmt.Errorf("chadbuffer: payload %d bytes exceeds buffer capacity %d", len(payload), h.Size)
	}

	for off := 0; off < len(payload); off += ChunkSize {
		end := off + ChunkSize
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[off:end]

		data := make([]byte, 5+len(chunk))
		data[0] = opWrite
		binary.LittleEndian.PutUint32(data[1:5], uint32(off))
		copy(data[5:], chunk)
		ix := ledger.Instruction{
			ProgramID: m.program,
			Accounts: []ledger.AccountMeta{
				{Address: h.Address, Writable: true},
				{Address: h.Authority, Signer: true},
			},
			Data: data,
		}
		if _, err := m.client.SendTransaction(ctx, []ledger.Instruction{ix}); err != nil {
			return fmt.Errorf("chadbuffer: write chunk at offset %d: %w", off, err)
		}
		if onProgress != nil {
			onProgress(end, len(payload))
		}
	}
	m.log.Debug().
		Str("buffer", h.Address.String()).
		Int("bytes", len(payload)).
		Msg("uploaded proof to buffer")
	return nil
}

// Verify fetches the buffer and compares its payload byte-for-byte against
// the expected bytes. It must pass before any instruction references the
// buffer.
func (m *Manager) Verify(ctx context.Context, h *Handle, payload []byte) error {
	if len(payload) == 0 {
		return ErrEmptyPayload
	}
	data, exists, err := m.client.GetAccountData(ctx, h.Address)
	if err != nil {
		return fmt.Errorf("chadbuffer: verify: fetch buffer: %w", err)
	}
	if !exists {
		return &ledger.MissingAccountError{Address: h.Address, What: "proof buffer"}
	}
	if len(data) < HeaderSize+len(payload) {
		return fmt.Errorf("chadbuffer: buffer %s holds %d bytes, want >= %d", h.Address, len(data), HeaderSize+len(payload))
	}
	if !bytes.Equal(data[:HeaderSize], h.Authority[:]) {
		return fmt.Errorf("chadbuffer: buffer %s authority changed", h.Address)
	}
	stored := data[HeaderSize : HeaderSize+len(payload)]
	for i := range payload {
		if stored[i] != payload[i] {
			return &MismatchError{Address: h.Address, Offset: i}
		}
	}
	return nil
}

// Close reclaims the buffer's rent deposit. Failure is wrapped in a
// CloseError so callers can treat it as non-fatal.
func (m *Manager) Close(ctx context.Context, h *Handle) error {
	ix := ledger.Instruction{
		ProgramID: m.program,
		Accounts: []ledger.AccountMeta{
			{Address: h.Address, Writable: true},
			{Address: h.Authority, Signer: true, Writable: true},
		},
		Data: []byte{opClose},
	}
	if _, err := m.client.SendTransaction(ctx, []ledger.Instruction{ix}); err != nil {
		return &CloseError{Address: h.Address, Err: err}
	}
	m.log.Debug().Str("buffer", h.Address.String()).Msg("closed proof buffer")
	return nil
}
