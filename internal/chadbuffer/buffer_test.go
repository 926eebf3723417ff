// buffer_test.go - Upload/verify/close tests against an in-memory ledger.

package chadbuffer

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/ledger"
)

// fakeLedger applies buffer-program instructions to in-memory accounts.
type fakeLedger struct {
	accounts map[ledger.Address][]byte
	sends    int
	failNext error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{accounts: make(map[ledger.Address][]byte)}
}

func (f *fakeLedger) GetAccountData(ctx context.Context, addr ledger.Address) ([]byte, bool, error) {
	data, ok := f.accounts[addr]
	if !ok {
		return nil, false, nil
	}
	return data, true, nil
}

func (f *fakeLedger) GetProgramAccounts(ctx context.Context, program ledger.Address, filters []ledger.Filter) ([]ledger.ProgramAccount, error) {
	return nil, nil
}

func (f *fakeLedger) SendTransaction(ctx context.Context, instructions []ledger.Instruction) (string, error) {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return "", err
	}
	f.sends++
	for _, ix := range instructions {
		buffer := ix.Accounts[0].Address
		switch ix.Data[0] {
		case opInitialize:
			size := binary.LittleEndian.Uint32(ix.Data[1:5])
			data := make([]byte, HeaderSize+int(size))
			authority := ix.Accounts[1].Address
			copy(data[:HeaderSize], authority[:])
			f.accounts[buffer] = data
		case opWrite:
			offset := binary.LittleEndian.Uint32(ix.Data[1:5])
			chunk := ix.Data[5:]
			copy(f.accounts[buffer][HeaderSize+int(offset):], chunk)
		case opClose:
			delete(f.accounts, buffer)
		}
	}
	return "sig", nil
}

func newManager(t *testing.T, l *fakeLedger) *Manager {
	t.Helper()
	next := byte(0x40)
	newAddress := func() (ledger.Address, error) {
		var a ledger.Address
		a[0] = next
		next++
		return a, nil
	}
	var program, authority ledger.Address
	program[0] = 0x01
	authority[0] = 0x02
	return NewManager(l, program, authority, newAddress, zerolog.Nop())
}

func payload(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i * 7)
	}
	return p
}

func TestUploadVerifyRoundTrip(t *testing.T) {
	l := newFakeLedger()
	m := newManager(t, l)
	ctx := context.Background()

	// 2 full chunks plus a partial final one.
	proof := payload(2*ChunkSize + 137)
	h, err := m.Create(ctx, len(proof))
	require.NoError(t, err)

	var progress []int
	onProgress := func(written, total int) {
		assert.Equal(t, len(proof), total)
		progress = append(progress, written)
	}
	require.NoError(t, m.Upload(ctx, h, proof, onProgress))
	assert.Equal(t, []int{ChunkSize, 2 * ChunkSize, len(proof)}, progress)

	require.NoError(t, m.Verify(ctx, h, proof))

	require.NoError(t, m.Close(ctx, h))
	err = m.Verify(ctx, h, proof)
	var missing *ledger.MissingAccountError
	assert.ErrorAs(t, err, &missing)
}

func TestUploadSingleChunk(t *testing.T) {
	l := newFakeLedger()
	m := newManager(t, l)
	ctx := context.Background()

	proof := payload(260)
	h, err := m.Create(ctx, 1024)
	require.NoError(t, err)
	require.NoError(t, m.Upload(ctx, h, proof, nil))
	require.NoError(t, m.Verify(ctx, h, proof))

	// create + 1 write
	assert.Equal(t, 2, l.sends)
}

func TestUploadIsIdempotent(t *testing.T) {
	l := newFakeLedger()
	m := newManager(t, l)
	ctx := context.Background()

	proof := payload(ChunkSize + 50)
	h, err := m.Create(ctx, len(proof))
	require.NoError(t, err)
	require.NoError(t, m.Upload(ctx, h, proof, nil))
	// Re-driving the whole upload lands identical bytes.
	require.NoError(t, m.Upload(ctx, h, proof, nil))
	require.NoError(t, m.Verify(ctx, h, proof))
}

func TestUploadRejectsOversizedPayload(t *testing.T) {
	l := newFakeLedger()
	m := newManager(t, l)
	ctx := context.Background()

	h, err := m.Create(ctx, 100)
	require.NoError(t, err)
	assert.Error(t, m.Upload(ctx, h, payload(101), nil))
	assert.ErrorIs(t, m.Upload(ctx, h, nil, nil), ErrEmptyPayload)
}

func TestVerifyDetectsCorruption(t *testing.T) {
	l := newFakeLedger()
	m := newManager(t, l)
	ctx := context.Background()

	proof := payload(500)
	h, err := m.Create(ctx, len(proof))
	require.NoError(t, err)
	require.NoError(t, m.Upload(ctx, h, proof, nil))

	// Flip one stored byte behind the manager's back.
	l.accounts[h.Address][HeaderSize+123] ^= 0xff

	err = m.Verify(ctx, h, proof)
	require.Error(t, err)
	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 123, mismatch.Offset)
}

func TestVerifyDetectsAuthorityChange(t *testing.T) {
	l := newFakeLedger()
	m := newManager(t, l)
	ctx := context.Background()

	proof := payload(64)
	h, err := m.Create(ctx, len(proof))
	require.NoError(t, err)
	require.NoError(t, m.Upload(ctx, h, proof, nil))

	l.accounts[h.Address][0] ^= 0xff
	assert.Error(t, m.Verify(ctx, h, proof))
}

func TestCloseFailureIsTyped(t *testing.T) {
	l := newFakeLedger()
	m := newManager(t, l)
	ctx := context.Background()

	h, err := m.Create(ctx, 64)
	require.NoError(t, err)

	l.failNext = errors.New("node unavailable")
	err = m.Close(ctx, h)
	require.Error(t, err)
	var ce *CloseError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, h.Address, ce.Address)
}

func TestUploadChunkFailureNamesOffset(t *testing.T) {
	l := newFakeLedger()
	m := newManager(t, l)
	ctx := context.Background()

	proof := payload(ChunkSize + 10)
	h, err := m.Create(ctx, len(proof))
	require.NoError(t, err)

	l.failNext = errors.New("timeout")
	err = m.Upload(ctx, h, proof, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 0")

	// Retry succeeds and the content is whole.
	require.NoError(t, m.Upload(ctx, h, proof, nil))
	require.NoError(t, m.Verify(ctx, h, proof))
}
