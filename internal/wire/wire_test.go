// wire_test.go - Instruction layout tests, parsing encoded bytes back at
// fixed offsets.

package wire

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
	"github.com/cheng-chun-yuan/zVault-sub005/internal/ledger"
)

func addr(tag byte) ledger.Address {
	var a ledger.Address
	for i := range a {
		a[i] = tag
	}
	return a
}

func elem(v uint64) field.Element {
	return field.FromUint64(v)
}

func proofBytes(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i)
	}
	return p
}

func claimParams(proof ProofSource) *ClaimParams {
	return &ClaimParams{
		Proof:         proof,
		Root:          elem(101),
		NullifierHash: elem(102),
		AmountSats:    77_000,
		Recipient:     addr(0xaa),
		VkHash:        [32]byte{0x11},
		Accounts: ClaimAccounts{
			PoolState:       addr(1),
			CommitmentTree:  addr(2),
			NullifierRecord: addr(3),
			Mint:            addr(4),
			RecipientToken:  addr(5),
			Payer:           addr(6),
			TokenProgram:    addr(7),
			SystemProgram:   addr(8),
		},
	}
}

func TestEncodeClaimInlineLayout(t *testing.T) {
	for _, size := range []int{MinProofSize, 512, MaxProofSize} {
		proof := proofBytes(size)
		ix, err := EncodeClaim(addr(0xf0), claimParams(InlineProof{Bytes: proof}))
		require.NoError(t, err)

		data := ix.Data
		require.Len(t, data, 1+4+size+32+32+8+32+32)
		assert.Equal(t, OpClaim, data[0])
		assert.Equal(t, uint32(size), binary.LittleEndian.Uint32(data[1:5]))
		assert.Equal(t, proof, data[5:5+size])

		off := 5 + size
		root := elem(101).Bytes()
		nh := elem(102).Bytes()
		assert.Equal(t, root[:], data[off:off+32])
		assert.Equal(t, nh[:], data[off+32:off+64])
		assert.Equal(t, uint64(77_000), binary.LittleEndian.Uint64(data[off+64:off+72]))
		recipient := addr(0xaa)
		assert.Equal(t, recipient[:], data[off+72:off+104])
		assert.Equal(t, byte(0x11), data[off+104])

		// Account table order and roles.
		require.Len(t, ix.Accounts, 8)
		assert.True(t, ix.Accounts[0].Writable)
		assert.False(t, ix.Accounts[1].Writable)
		assert.True(t, ix.Accounts[5].Signer)
	}
}

func TestEncodeClaimBuffered(t *testing.T) {
	handle := addr(0xbf)
	ix, err := EncodeClaim(addr(0xf0), claimParams(BufferedProof{Handle: handle}))
	require.NoError(t, err)

	// Public inputs start right after the opcode; no proof block.
	require.Len(t, ix.Data, 1+32+32+8+32+32)
	assert.Equal(t, OpClaim, ix.Data[0])
	root := elem(101).Bytes()
	assert.Equal(t, root[:], ix.Data[1:33])

	// The buffer account rides last, read-only, not a signer.
	require.Len(t, ix.Accounts, 9)
	last := ix.Accounts[8]
	assert.Equal(t, handle, last.Address)
	assert.False(t, last.Writable)
	assert.False(t, last.Signer)
}

func TestEncodeClaimProofBounds(t *testing.T) {
	for _, size := range []int{0, MinProofSize - 1, MaxProofSize + 1} {
		_, err := EncodeClaim(addr(0xf0), claimParams(InlineProof{Bytes: proofBytes(size)}))
		require.Error(t, err, "size %d", size)
		var se *ProofSizeError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, size, se.Len)
	}
}

func TestEncodeClaimRejectsZeroParams(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*ClaimParams)
	}{
		{"root", func(p *ClaimParams) { p.Root = field.Element{} }},
		{"nullifierHash", func(p *ClaimParams) { p.NullifierHash = field.Element{} }},
		{"amountSats", func(p *ClaimParams) { p.AmountSats = 0 }},
		{"recipient", func(p *ClaimParams) { p.Recipient = ledger.Address{} }},
	}
	for _, tc := range cases {
		p := claimParams(InlineProof{Bytes: proofBytes(MinProofSize)})
		tc.mutate(p)
		_, err := EncodeClaim(addr(0xf0), p)
		var pe *ParamError
		require.ErrorAs(t, err, &pe, tc.field)
		assert.Equal(t, tc.field, pe.Field)
	}

	// Nil proof and zero buffer handle are caller-contract violations too.
	p := claimParams(nil)
	_, err := EncodeClaim(addr(0xf0), p)
	var pe *ParamError
	require.ErrorAs(t, err, &pe)

	p = claimParams(BufferedProof{})
	_, err = EncodeClaim(addr(0xf0), p)
	require.ErrorAs(t, err, &pe)
}

func TestEncodeSplitLayout(t *testing.T) {
	p := &SplitParams{
		Proof:                 BufferedProof{Handle: addr(0xbf)},
		Root:                  elem(1),
		NullifierHash:         elem(2),
		OutCommitment1:        elem(3),
		OutCommitment2:        elem(4),
		VkHash:                [32]byte{5},
		Out1EphPubX:           elem(6),
		Out1EncAmountWithSign: [32]byte{7},
		Out2EphPubX:           elem(8),
		Out2EncAmountWithSign: [32]byte{9},
		Accounts: SplitAccounts{
			PoolState:       addr(1),
			CommitmentTree:  addr(2),
			NullifierRecord: addr(3),
			Payer:           addr(4),
			SystemProgram:   addr(5),
		},
	}
	ix, err := EncodeSplit(addr(0xf0), p)
	require.NoError(t, err)

	require.Len(t, ix.Data, 1+9*32)
	assert.Equal(t, OpSplit, ix.Data[0])
	// Nine 32-byte fields in declaration order.
	want := [][32]byte{
		elem(1).Bytes(), elem(2).Bytes(), elem(3).Bytes(), elem(4).Bytes(),
		{5}, elem(6).Bytes(), {7}, elem(8).Bytes(), {9},
	}
	for i, w := range want {
		assert.Equal(t, w[:], ix.Data[1+i*32:1+(i+1)*32], "field %d", i)
	}
}

func TestEncodePartialPublicLayout(t *testing.T) {
	p := &PartialPublicParams{
		Proof:                   InlineProof{Bytes: proofBytes(MinProofSize)},
		Root:                    elem(10),
		NullifierHash:           elem(11),
		PublicAmount:            12_345,
		ChangeCommitment:        elem(12),
		Recipient:               addr(0xcc),
		VkHash:                  [32]byte{0x0d},
		ChangeEphPubX:           elem(14),
		ChangeEncAmountWithSign: [32]byte{0x0f},
		Accounts: PartialPublicAccounts{
			PoolState:       addr(1),
			CommitmentTree:  addr(2),
			NullifierRecord: addr(3),
			Mint:            addr(4),
			RecipientToken:  addr(5),
			Payer:           addr(6),
			TokenProgram:    addr(7),
			SystemProgram:   addr(8),
		},
	}
	ix, err := EncodePartialPublicSpend(addr(0xf0), p)
	require.NoError(t, err)

	data := ix.Data
	require.Len(t, data, 1+4+MinProofSize+32+32+8+32+32+32+32+32)
	assert.Equal(t, OpPartialPublicSpend, data[0])

	off := 5 + MinProofSize
	assert.Equal(t, uint64(12_345), binary.LittleEndian.Uint64(data[off+64:off+72]))
	change := elem(12).Bytes()
	assert.Equal(t, change[:], data[off+72:off+104])
	recipient := addr(0xcc)
	assert.Equal(t, recipient[:], data[off+104:off+136])
}

func TestEncodePoolDepositLayout(t *testing.T) {
	p := &PoolDepositParams{
		Proof:              BufferedProof{Handle: addr(0xbf)},
		InputNullifierHash: elem(21),
		PoolCommitment:     elem(22),
		Principal:          500_000,
		InputRoot:          elem(23),
		Accounts:           testPoolAccounts(),
	}
	ix, err := EncodePoolDeposit(addr(0xf0), p)
	require.NoError(t, err)

	require.Len(t, ix.Data, 1+32+32+8+32)
	assert.Equal(t, OpPoolDeposit, ix.Data[0])
	assert.Equal(t, uint64(500_000), binary.LittleEndian.Uint64(ix.Data[65:73]))
	root := elem(23).Bytes()
	assert.Equal(t, root[:], ix.Data[73:105])

	require.Len(t, ix.Accounts, 7)
	assert.Equal(t, addr(0xbf), ix.Accounts[6].Address)
}

func TestEncodePoolWithdrawLayout(t *testing.T) {
	p := &PoolWithdrawParams{
		Proof:             InlineProof{Bytes: proofBytes(300)},
		PoolNullifierHash: elem(31),
		OutputCommitment:  elem(32),
		PoolRoot:          elem(33),
		Principal:         250_000,
		DepositEpoch:      17,
		Accounts:          testPoolAccounts(),
	}
	ix, err := EncodePoolWithdraw(addr(0xf0), p)
	require.NoError(t, err)

	data := ix.Data
	require.Len(t, data, 1+4+300+32+32+32+8+8)
	assert.Equal(t, OpPoolWithdraw, data[0])
	off := 5 + 300
	assert.Equal(t, uint64(250_000), binary.LittleEndian.Uint64(data[off+96:off+104]))
	assert.Equal(t, uint64(17), binary.LittleEndian.Uint64(data[off+104:off+112]))
}

func TestEncodePoolYieldClaimLayout(t *testing.T) {
	p := &PoolYieldClaimParams{
		Proof:             BufferedProof{Handle: addr(0xbf)},
		OldNullifierHash:  elem(41),
		NewPoolCommitment: elem(42),
		YieldCommitment:   elem(43),
		PoolRoot:          elem(44),
		Principal:         100_000,
		DepositEpoch:      9,
		Accounts:          testPoolAccounts(),
	}
	ix, err := EncodePoolYieldClaim(addr(0xf0), p)
	require.NoError(t, err)

	require.Len(t, ix.Data, 1+4*32+8+8)
	assert.Equal(t, OpPoolYieldClaim, ix.Data[0])
	yield := elem(43).Bytes()
	assert.Equal(t, yield[:], ix.Data[65:97])
	assert.Equal(t, uint64(9), binary.LittleEndian.Uint64(ix.Data[137:145]))
}

func TestEncodeAnnouncements(t *testing.T) {
	accounts := AnnounceAccounts{
		Announcement:  addr(1),
		Payer:         addr(2),
		SystemProgram: addr(3),
	}

	v2 := &AnnounceStealthV2Params{
		AmountSats: 4_242,
		Commitment: elem(99),
		Accounts:   accounts,
	}
	v2.EphViewPub[0] = 0xaa
	v2.EphSpendPub[0] = 0x02
	ix, err := EncodeAnnounceStealthV2(addr(0xf0), v2)
	require.NoError(t, err)
	require.Len(t, ix.Data, 1+32+33+8+32)
	assert.Equal(t, OpAnnounceStealthV2, ix.Data[0])
	assert.Equal(t, byte(0xaa), ix.Data[1])
	assert.Equal(t, byte(0x02), ix.Data[33])
	assert.Equal(t, uint64(4_242), binary.LittleEndian.Uint64(ix.Data[66:74]))

	v1 := &AnnounceStealthV1Params{AmountSats: 777, Accounts: accounts}
	v1.EphSpendPub[0] = 0x03
	ix, err = EncodeAnnounceStealthV1(addr(0xf0), v1)
	require.NoError(t, err)
	require.Len(t, ix.Data, 1+33+8)
	assert.Equal(t, OpAnnounceStealth, ix.Data[0])
	assert.Equal(t, uint64(777), binary.LittleEndian.Uint64(ix.Data[34:42]))

	// Payer signs, announcement PDA is writable.
	require.Len(t, ix.Accounts, 3)
	assert.True(t, ix.Accounts[0].Writable)
	assert.True(t, ix.Accounts[1].Signer)
}

func testPoolAccounts() PoolAccounts {
	return PoolAccounts{
		PoolState:       addr(1),
		CommitmentTree:  addr(2),
		PoolTree:        addr(3),
		NullifierRecord: addr(4),
		Payer:           addr(5),
		SystemProgram:   addr(6),
	}
}
