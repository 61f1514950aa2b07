package types

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Record sizes in bytes. They are part of the on-chain layout: addresses are
// allocated with exactly this much space.
const (
	BridgeLen     = 33
	BlockchainLen = 85
	ValidatorLen  = 77
	LockLen       = 237
	SignatureLen  = 150
	UserLen       = 53
	LockTxLen     = 110
)

var (
	_ Record = (*Bridge)(nil)
	_ Record = (*Blockchain)(nil)
	_ Record = (*Validator)(nil)
	_ Record = (*Lock)(nil)
	_ Record = (*Signature)(nil)
	_ Record = (*User)(nil)
	_ Record = (*LockTx)(nil)
)

// Bridge is the root record of one bridge deployment.
type Bridge struct {
	Version uint8            `json:"version"`
	Owner   solana.PublicKey `json:"owner"` // signs secure instructions to the bridge
}

func NewBridge(owner solana.PublicKey) Bridge {
	return Bridge{Version: CurrentVersion, Owner: owner}
}

func (b *Bridge) Len() int            { return BridgeLen }
func (b *Bridge) IsInitialized() bool { return b.Version == CurrentVersion }

func (b *Bridge) MarshalWithEncoder(enc *bin.Encoder) error {
	w := &fieldWriter{enc: enc}
	w.u8(b.Version)
	w.raw(b.Owner[:])
	return w.err
}

func (b *Bridge) UnmarshalWithDecoder(dec *bin.Decoder) error {
	r := &fieldReader{dec: dec}
	b.Version = r.u8()
	b.Owner = r.pubkey()
	return r.err
}

// Blockchain is a registered source or destination chain.
type Blockchain struct {
	Version         uint8            `json:"version"`
	Bridge          solana.PublicKey `json:"bridge"`
	BlockchainID    ChainID          `json:"blockchain_id"`
	Validators      uint64           `json:"validators"` // next validator index
	Locks           uint64           `json:"locks"`      // next lock index
	ContractAddress Address          `json:"contract_address"`
}

func NewBlockchain(bridge solana.PublicKey, id ChainID, contract Address) Blockchain {
	return Blockchain{
		Version:         CurrentVersion,
		Bridge:          bridge,
		BlockchainID:    id,
		ContractAddress: contract,
	}
}

func (b *Blockchain) Len() int            { return BlockchainLen }
func (b *Blockchain) IsInitialized() bool { return b.Version == CurrentVersion }

func (b *Blockchain) MarshalWithEncoder(enc *bin.Encoder) error {
	w := &fieldWriter{enc: enc}
	w.u8(b.Version)
	w.raw(b.Bridge[:])
	w.raw(b.BlockchainID[:])
	w.u64(b.Validators)
	w.u64(b.Locks)
	w.raw(b.ContractAddress[:])
	return w.err
}

func (b *Blockchain) UnmarshalWithDecoder(dec *bin.Decoder) error {
	r := &fieldReader{dec: dec}
	b.Version = r.u8()
	b.Bridge = r.pubkey()
	r.raw(b.BlockchainID[:])
	b.Validators = r.u64()
	b.Locks = r.u64()
	r.raw(b.ContractAddress[:])
	return r.err
}

// Validator is an oracle allowed to attest locks for one chain.
type Validator struct {
	Version      uint8            `json:"version"`
	BlockchainID ChainID          `json:"blockchain_id"`
	Index        uint64           `json:"index"`
	PubKey       PubKey           `json:"pub_key"`
	Owner        solana.PublicKey `json:"owner"` // authority that registered it and signs its attestations
}

func NewValidator(id ChainID, index uint64, pubKey PubKey, owner solana.PublicKey) Validator {
	return Validator{
		Version:      CurrentVersion,
		BlockchainID: id,
		Index:        index,
		PubKey:       pubKey,
		Owner:        owner,
	}
}

func (v *Validator) Len() int            { return ValidatorLen }
func (v *Validator) IsInitialized() bool { return v.Version == CurrentVersion }

func (v *Validator) MarshalWithEncoder(enc *bin.Encoder) error {
	w := &fieldWriter{enc: enc}
	w.u8(v.Version)
	w.raw(v.BlockchainID[:])
	w.u64(v.Index)
	w.raw(v.PubKey[:])
	w.raw(v.Owner[:])
	return w.err
}

func (v *Validator) UnmarshalWithDecoder(dec *bin.Decoder) error {
	r := &fieldReader{dec: dec}
	v.Version = r.u8()
	r.raw(v.BlockchainID[:])
	v.Index = r.u64()
	r.raw(v.PubKey[:])
	v.Owner = r.pubkey()
	return r.err
}

// Lock is one cross-chain transfer intent keyed by (source, tx id).
type Lock struct {
	Version            uint8            `json:"version"`
	Index              uint64           `json:"index"`
	LockID             uint64           `json:"lock_id"`
	TxID               TxID             `json:"tx_id"`
	Bridge             solana.PublicKey `json:"bridge"`
	TokenSourceAddress Address          `json:"token_source_address"`
	TokenSource        ChainID          `json:"token_source"`
	Source             ChainID          `json:"source"`
	Sender             Address          `json:"sender"`
	Recipient          Address          `json:"recipient"`
	Destination        ChainID          `json:"destination"`
	Amount             uint64           `json:"amount"`
	Signatures         uint64           `json:"signatures"`
}

// LockTerms are the immutable fields every submission for a lock must repeat.
type LockTerms struct {
	LockID             uint64
	TxID               TxID
	TokenSource        ChainID
	TokenSourceAddress Address
	Source             ChainID
	Destination        ChainID
	Sender             Address
	Recipient          Address
	Amount             uint64
}

func NewLock(index uint64, bridge solana.PublicKey, terms LockTerms) Lock {
	return Lock{
		Version:            CurrentVersion,
		Index:              index,
		LockID:             terms.LockID,
		TxID:               terms.TxID,
		Bridge:             bridge,
		TokenSourceAddress: terms.TokenSourceAddress,
		TokenSource:        terms.TokenSource,
		Source:             terms.Source,
		Sender:             terms.Sender,
		Recipient:          terms.Recipient,
		Destination:        terms.Destination,
		Amount:             terms.Amount,
	}
}

// Terms returns the immutable part of the lock.
func (l *Lock) Terms() LockTerms {
	return LockTerms{
		LockID:             l.LockID,
		TxID:               l.TxID,
		TokenSource:        l.TokenSource,
		TokenSourceAddress: l.TokenSourceAddress,
		Source:             l.Source,
		Destination:        l.Destination,
		Sender:             l.Sender,
		Recipient:          l.Recipient,
		Amount:             l.Amount,
	}
}

// MismatchedField names the first immutable field that differs from claim,
// or returns "" when the claim matches the stored lock.
func (l *Lock) MismatchedField(claim LockTerms) string {
	stored := l.Terms()
	switch {
	case stored.LockID != claim.LockID:
		return "lock_id"
	case stored.TxID != claim.TxID:
		return "tx_id"
	case stored.TokenSource != claim.TokenSource:
		return "token_source"
	case stored.TokenSourceAddress != claim.TokenSourceAddress:
		return "token_source_address"
	case stored.Source != claim.Source:
		return "source"
	case stored.Sender != claim.Sender:
		return "sender"
	case stored.Recipient != claim.Recipient:
		return "recipient"
	case stored.Destination != claim.Destination:
		return "destination"
	case stored.Amount != claim.Amount:
		return "amount"
	}
	return ""
}

func (l *Lock) Len() int            { return LockLen }
func (l *Lock) IsInitialized() bool { return l.Version == CurrentVersion }

func (l *Lock) MarshalWithEncoder(enc *bin.Encoder) error {
	w := &fieldWriter{enc: enc}
	w.u8(l.Version)
	w.u64(l.Index)
	w.u64(l.LockID)
	w.raw(l.TxID[:])
	w.raw(l.Bridge[:])
	w.raw(l.TokenSourceAddress[:])
	w.raw(l.TokenSource[:])
	w.raw(l.Source[:])
	w.raw(l.Sender[:])
	w.raw(l.Recipient[:])
	w.raw(l.Destination[:])
	w.u64(l.Amount)
	w.u64(l.Signatures)
	return w.err
}

func (l *Lock) UnmarshalWithDecoder(dec *bin.Decoder) error {
	r := &fieldReader{dec: dec}
	l.Version = r.u8()
	l.Index = r.u64()
	l.LockID = r.u64()
	r.raw(l.TxID[:])
	l.Bridge = r.pubkey()
	r.raw(l.TokenSourceAddress[:])
	r.raw(l.TokenSource[:])
	r.raw(l.Source[:])
	r.raw(l.Sender[:])
	r.raw(l.Recipient[:])
	r.raw(l.Destination[:])
	l.Amount = r.u64()
	l.Signatures = r.u64()
	return r.err
}

// Signature is one validator's attestation on a lock.
type Signature struct {
	Version        uint8            `json:"version"`
	Source         ChainID          `json:"source"`
	LockID         uint64           `json:"lock_id"`
	Bridge         solana.PublicKey `json:"bridge"`
	Signature      OracleSignature  `json:"signature"`
	Validator      solana.PublicKey `json:"validator"` // validator record address
	ValidatorIndex uint64           `json:"validator_index"`
}

func NewSignature(
	source ChainID,
	lockID uint64,
	bridge solana.PublicKey,
	signature OracleSignature,
	validator solana.PublicKey,
	validatorIndex uint64,
) Signature {
	return Signature{
		Version:        CurrentVersion,
		Source:         source,
		LockID:         lockID,
		Bridge:         bridge,
		Signature:      signature,
		Validator:      validator,
		ValidatorIndex: validatorIndex,
	}
}

func (s *Signature) Len() int            { return SignatureLen }
func (s *Signature) IsInitialized() bool { return s.Version == CurrentVersion }

func (s *Signature) MarshalWithEncoder(enc *bin.Encoder) error {
	w := &fieldWriter{enc: enc}
	w.u8(s.Version)
	w.raw(s.Source[:])
	w.u64(s.LockID)
	w.raw(s.Bridge[:])
	w.raw(s.Signature[:])
	w.raw(s.Validator[:])
	w.u64(s.ValidatorIndex)
	return w.err
}

func (s *Signature) UnmarshalWithDecoder(dec *bin.Decoder) error {
	r := &fieldReader{dec: dec}
	s.Version = r.u8()
	r.raw(s.Source[:])
	s.LockID = r.u64()
	s.Bridge = r.pubkey()
	r.raw(s.Signature[:])
	s.Validator = r.pubkey()
	s.ValidatorIndex = r.u64()
	return r.err
}

// User holds per (chain, address) transfer counters. The counters are the
// next free leg index on each side.
type User struct {
	Version      uint8   `json:"version"`
	BlockchainID ChainID `json:"blockchain_id"`
	Address      Address `json:"address"`
	Sent         uint64  `json:"sent"`
	Received     uint64  `json:"received"`
}

func NewUser(id ChainID, address Address) User {
	return User{Version: CurrentVersion, BlockchainID: id, Address: address}
}

// Counter returns the next leg index for kind.
func (u *User) Counter(kind LegKind) uint64 {
	if kind == LegSent {
		return u.Sent
	}
	return u.Received
}

// Advance increments the counter for kind.
func (u *User) Advance(kind LegKind) {
	if kind == LegSent {
		u.Sent++
		return
	}
	u.Received++
}

func (u *User) Len() int            { return UserLen }
func (u *User) IsInitialized() bool { return u.Version == CurrentVersion }

func (u *User) MarshalWithEncoder(enc *bin.Encoder) error {
	w := &fieldWriter{enc: enc}
	w.u8(u.Version)
	w.raw(u.BlockchainID[:])
	w.raw(u.Address[:])
	w.u64(u.Sent)
	w.u64(u.Received)
	return w.err
}

func (u *User) UnmarshalWithDecoder(dec *bin.Decoder) error {
	r := &fieldReader{dec: dec}
	u.Version = r.u8()
	r.raw(u.BlockchainID[:])
	r.raw(u.Address[:])
	u.Sent = r.u64()
	u.Received = r.u64()
	return r.err
}

// LockTx is one user-visible transfer leg pointing back at its lock.
type LockTx struct {
	Version     uint8            `json:"version"`
	TxID        TxID             `json:"tx_id"`
	Source      ChainID          `json:"source"`
	LockID      uint64           `json:"lock_id"`
	LockAccount solana.PublicKey `json:"lock_account"`
	Reverted    bool             `json:"reverted"`
}

func NewLockTx(txID TxID, source ChainID, lockID uint64, lockAccount solana.PublicKey, reverted bool) LockTx {
	return LockTx{
		Version:     CurrentVersion,
		TxID:        txID,
		Source:      source,
		LockID:      lockID,
		LockAccount: lockAccount,
		Reverted:    reverted,
	}
}

func (t *LockTx) Len() int            { return LockTxLen }
func (t *LockTx) IsInitialized() bool { return t.Version == CurrentVersion }

func (t *LockTx) MarshalWithEncoder(enc *bin.Encoder) error {
	w := &fieldWriter{enc: enc}
	w.u8(t.Version)
	w.raw(t.TxID[:])
	w.raw(t.Source[:])
	w.u64(t.LockID)
	w.raw(t.LockAccount[:])
	w.bool(t.Reverted)
	return w.err
}

func (t *LockTx) UnmarshalWithDecoder(dec *bin.Decoder) error {
	r := &fieldReader{dec: dec}
	t.Version = r.u8()
	r.raw(t.TxID[:])
	r.raw(t.Source[:])
	t.LockID = r.u64()
	t.LockAccount = r.pubkey()
	t.Reverted = r.bool()
	return r.err
}
