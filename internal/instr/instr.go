// Package instr encodes the on-ledger program instructions the wallet
// issues. System-program instructions use the solana-go builders; stake and
// vote program instructions are encoded directly: a little-endian u32
// discriminant followed by the bincode payload, with the account list laid
// out exactly as the program expects.
package instr

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

// Stake program instruction discriminants.
const (
	stakeInitialize uint32 = 0
	stakeWithdraw   uint32 = 4
	stakeDeactivate uint32 = 5
)

// Vote program instruction discriminants.
const (
	voteInitializeAccount uint32 = 0
	voteAuthorize         uint32 = 1
	voteWithdraw          uint32 = 3
)

// voteAuthorizeVoter selects the voter role in a vote Authorize payload.
const voteAuthorizeVoter uint32 = 0

// Transfer moves lamports between system accounts.
func Transfer(from, to solana.PublicKey, lamports uint64) solana.Instruction {
	return system.NewTransferInstruction(lamports, from, to).Build()
}

// CreateAccount funds and allocates a new account owned by the given
// program.
func CreateAccount(funder, newAccount solana.PublicKey, lamports, space uint64, owner solana.PublicKey) solana.Instruction {
	return system.NewCreateAccountInstruction(lamports, space, owner, funder, newAccount).Build()
}

// StakeInitialize sets the authorities of a freshly created stake account.
// Lockup is left disabled.
func StakeInitialize(stakeAccount, staker, withdrawer solana.PublicKey) solana.Instruction {
	data := make([]byte, 0, 4+32+32+8+8+32)
	data = appendUint32(data, stakeInitialize)
	data = append(data, staker.Bytes()...)
	data = append(data, withdrawer.Bytes()...)
	// lockup: unix_timestamp i64 = 0, epoch u64 = 0, custodian = default
	data = append(data, make([]byte, 8+8+32)...)

	return solana.NewInstruction(
		solana.StakeProgramID,
		[]*solana.AccountMeta{
			{PublicKey: stakeAccount, IsWritable: true, IsSigner: false},
			{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
		},
		data,
	)
}

// StakeDeactivate begins the cooldown of a delegated stake account.
func StakeDeactivate(stakeAccount, staker solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		solana.StakeProgramID,
		[]*solana.AccountMeta{
			{PublicKey: stakeAccount, IsWritable: true, IsSigner: false},
			{PublicKey: solana.SysVarClockPubkey, IsWritable: false, IsSigner: false},
			{PublicKey: staker, IsWritable: false, IsSigner: true},
		},
		appendUint32(nil, stakeDeactivate),
	)
}

// StakeWithdraw moves lamports out of a stake account to the recipient.
func StakeWithdraw(stakeAccount, withdrawer, recipient solana.PublicKey, lamports uint64) solana.Instruction {
	data := appendUint32(make([]byte, 0, 12), stakeWithdraw)
	data = appendUint64(data, lamports)

	return solana.NewInstruction(
		solana.StakeProgramID,
		[]*solana.AccountMeta{
			{PublicKey: stakeAccount, IsWritable: true, IsSigner: false},
			{PublicKey: recipient, IsWritable: true, IsSigner: false},
			{PublicKey: solana.SysVarClockPubkey, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SysVarStakeHistoryPubkey, IsWritable: false, IsSigner: false},
			{PublicKey: withdrawer, IsWritable: false, IsSigner: true},
		},
		data,
	)
}

// VoteInitialize writes the initial vote state into a freshly created vote
// account: node identity, authorized voter, authorized withdrawer, and
// commission.
func VoteInitialize(voteAccount, node, voter, withdrawer solana.PublicKey, commission uint8) solana.Instruction {
	data := make([]byte, 0, 4+32+32+32+1)
	data = appendUint32(data, voteInitializeAccount)
	data = append(data, node.Bytes()...)
	data = append(data, voter.Bytes()...)
	data = append(data, withdrawer.Bytes()...)
	data = append(data, commission)

	return solana.NewInstruction(
		solana.VoteProgramID,
		[]*solana.AccountMeta{
			{PublicKey: voteAccount, IsWritable: true, IsSigner: false},
			{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SysVarClockPubkey, IsWritable: false, IsSigner: false},
			{PublicKey: node, IsWritable: false, IsSigner: true},
		},
		data,
	)
}

// VoteAuthorizeVoter rotates the vote account's authorized voter.
func VoteAuthorizeVoter(voteAccount, authority, newVoter solana.PublicKey) solana.Instruction {
	data := make([]byte, 0, 4+32+4)
	data = appendUint32(data, voteAuthorize)
	data = append(data, newVoter.Bytes()...)
	data = appendUint32(data, voteAuthorizeVoter)

	return solana.NewInstruction(
		solana.VoteProgramID,
		[]*solana.AccountMeta{
			{PublicKey: voteAccount, IsWritable: true, IsSigner: false},
			{PublicKey: solana.SysVarClockPubkey, IsWritable: false, IsSigner: false},
			{PublicKey: authority, IsWritable: false, IsSigner: true},
		},
		data,
	)
}

// VoteWithdraw moves lamports out of a vote account to the recipient.
func VoteWithdraw(voteAccount, withdrawer, recipient solana.PublicKey, lamports uint64) solana.Instruction {
	data := appendUint32(make([]byte, 0, 12), voteWithdraw)
	data = appendUint64(data, lamports)

	return solana.NewInstruction(
		solana.VoteProgramID,
		[]*solana.AccountMeta{
			{PublicKey: voteAccount, IsWritable: true, IsSigner: false},
			{PublicKey: recipient, IsWritable: true, IsSigner: false},
			{PublicKey: withdrawer, IsWritable: false, IsSigner: true},
		},
		data,
	)
}

func appendUint32(data []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(data, buf[:]...)
}

func appendUint64(data []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(data, buf[:]...)
}
