// opcode.go - Opcode registry, shared with the on-ledger program.

package wire

const (
	OpSplit              byte = 4
	OpClaim              byte = 9
	OpPartialPublicSpend byte = 10
	OpAnnounceStealth    byte = 16
	OpAnnounceStealthV2  byte = 22
	OpPoolDeposit        byte = 31
	OpPoolWithdraw       byte = 32
	OpPoolYieldClaim     byte = 33
)
