package types

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"
	bin "github.com/gagliardetto/binary"
)

// InstructionKind is the borsh enum variant tag of an instruction.
type InstructionKind uint8

const (
	InstructionInitializeBridge InstructionKind = iota
	InstructionAddBlockchain
	InstructionAddValidator
	InstructionAddSignature
)

func (k InstructionKind) String() string {
	switch k {
	case InstructionInitializeBridge:
		return "InitializeBridge"
	case InstructionAddBlockchain:
		return "AddBlockchain"
	case InstructionAddValidator:
		return "AddValidator"
	case InstructionAddSignature:
		return "AddSignature"
	default:
		return "Unknown"
	}
}

// Msg is an instruction payload of the bridge program.
type Msg interface {
	bin.BinaryMarshaler
	bin.BinaryUnmarshaler
	Kind() InstructionKind
	ValidateBasic() error
}

var (
	_ Msg = (*MsgInitializeBridge)(nil)
	_ Msg = (*MsgAddBlockchain)(nil)
	_ Msg = (*MsgAddValidator)(nil)
	_ Msg = (*MsgAddSignature)(nil)
)

// MsgInitializeBridge initializes a pre-allocated bridge account.
//
// Accounts:
//  0. [W] uninitialized bridge account, owned by the program
//  1. [S] bridge owner
type MsgInitializeBridge struct{}

func (m *MsgInitializeBridge) Kind() InstructionKind { return InstructionInitializeBridge }
func (m *MsgInitializeBridge) ValidateBasic() error  { return nil }

func (m *MsgInitializeBridge) MarshalWithEncoder(*bin.Encoder) error   { return nil }
func (m *MsgInitializeBridge) UnmarshalWithDecoder(*bin.Decoder) error { return nil }

// MsgAddBlockchain registers a chain.
//
// Accounts:
//  0. [ ] bridge
//  1. [W] blockchain, derived from the bridge authority and "blockchain_{chain}"
//  2. [WS] payer
//  3. [ ] bridge authority
type MsgAddBlockchain struct {
	BlockchainID    string  `json:"blockchain_id"`
	ContractAddress Address `json:"contract_address"`
}

func (m *MsgAddBlockchain) Kind() InstructionKind { return InstructionAddBlockchain }

func (m *MsgAddBlockchain) ValidateBasic() error {
	_, err := ParseChainID(m.BlockchainID)
	return err
}

func (m *MsgAddBlockchain) MarshalWithEncoder(enc *bin.Encoder) error {
	w := &fieldWriter{enc: enc}
	w.str(m.BlockchainID)
	w.raw(m.ContractAddress[:])
	return w.err
}

func (m *MsgAddBlockchain) UnmarshalWithDecoder(dec *bin.Decoder) error {
	r := &fieldReader{dec: dec}
	m.BlockchainID = r.str()
	r.raw(m.ContractAddress[:])
	return r.err
}

// MsgAddValidator registers the next validator of a chain.
//
// Accounts:
//  0. [ ] bridge
//  1. [W] blockchain
//  2. [W] validator, derived from "validator_{chain}_{blockchain.validators}"
//  3. [WS] payer, becomes the validator owner
//  4. [ ] bridge authority
type MsgAddValidator struct {
	BlockchainID string `json:"blockchain_id"`
	PubKey       PubKey `json:"pub_key"`
}

func (m *MsgAddValidator) Kind() InstructionKind { return InstructionAddValidator }

func (m *MsgAddValidator) ValidateBasic() error {
	_, err := ParseChainID(m.BlockchainID)
	return err
}

func (m *MsgAddValidator) MarshalWithEncoder(enc *bin.Encoder) error {
	w := &fieldWriter{enc: enc}
	w.str(m.BlockchainID)
	w.raw(m.PubKey[:])
	return w.err
}

func (m *MsgAddValidator) UnmarshalWithDecoder(dec *bin.Decoder) error {
	r := &fieldReader{dec: dec}
	m.BlockchainID = r.str()
	r.raw(m.PubKey[:])
	return r.err
}

// MsgAddSignature records one validator attestation for a lock, creating the
// lock and both user legs on first submission.
//
// Accounts:
//  0. [ ] bridge
//  1. [W] blockchain of the source chain
//  2. [ ] validator
//  3. [W] lock
//  4. [W] signature
//  5. [ ] bridge authority
//  6. [WS] payer, the validator owner
//  7. [ ] sender user authority
//  8. [W] sender user
//  9. [W] sent leg
//  10. [ ] recipient user authority
//  11. [W] recipient user
//  12. [W] received leg
type MsgAddSignature struct {
	Signature          OracleSignature `json:"signature"`
	TokenSource        string          `json:"token_source"`
	TokenSourceAddress Address         `json:"token_source_address"`
	Source             string          `json:"source"`
	TxID               TxID            `json:"tx_id"`
	LockID             uint64          `json:"lock_id"`
	Destination        string          `json:"destination"`
	Sender             Address         `json:"sender"`
	Recipient          Address         `json:"recipient"`
	Amount             uint64          `json:"amount"`
	Revert             bool            `json:"revert"`
}

func (m *MsgAddSignature) Kind() InstructionKind { return InstructionAddSignature }

func (m *MsgAddSignature) ValidateBasic() error {
	for _, id := range []string{m.TokenSource, m.Source, m.Destination} {
		if _, err := ParseChainID(id); err != nil {
			return err
		}
	}
	if m.Source == "" || m.Destination == "" {
		return errorsmod.Wrap(ErrInvalidArgument, "source and destination are required")
	}
	return nil
}

// Terms converts the claimed transfer into typed lock terms.
func (m *MsgAddSignature) Terms() (LockTerms, error) {
	tokenSource, err := ParseChainID(m.TokenSource)
	if err != nil {
		return LockTerms{}, err
	}
	source, err := ParseChainID(m.Source)
	if err != nil {
		return LockTerms{}, err
	}
	destination, err := ParseChainID(m.Destination)
	if err != nil {
		return LockTerms{}, err
	}
	return LockTerms{
		LockID:             m.LockID,
		TxID:               m.TxID,
		TokenSource:        tokenSource,
		TokenSourceAddress: m.TokenSourceAddress,
		Source:             source,
		Destination:        destination,
		Sender:             m.Sender,
		Recipient:          m.Recipient,
		Amount:             m.Amount,
	}, nil
}

func (m *MsgAddSignature) MarshalWithEncoder(enc *bin.Encoder) error {
	w := &fieldWriter{enc: enc}
	w.raw(m.Signature[:])
	w.str(m.TokenSource)
	w.raw(m.TokenSourceAddress[:])
	w.str(m.Source)
	w.raw(m.TxID[:])
	w.u64(m.LockID)
	w.str(m.Destination)
	w.raw(m.Sender[:])
	w.raw(m.Recipient[:])
	w.u64(m.Amount)
	w.bool(m.Revert)
	return w.err
}

func (m *MsgAddSignature) UnmarshalWithDecoder(dec *bin.Decoder) error {
	r := &fieldReader{dec: dec}
	r.raw(m.Signature[:])
	m.TokenSource = r.str()
	r.raw(m.TokenSourceAddress[:])
	m.Source = r.str()
	r.raw(m.TxID[:])
	m.LockID = r.u64()
	m.Destination = r.str()
	r.raw(m.Sender[:])
	r.raw(m.Recipient[:])
	m.Amount = r.u64()
	m.Revert = r.bool()
	return r.err
}

// EncodeInstruction writes the variant tag followed by the message fields.
func EncodeInstruction(msg Msg) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint8(uint8(msg.Kind())); err != nil {
		return nil, errorsmod.Wrap(ErrCodec, err.Error())
	}
	if err := msg.MarshalWithEncoder(enc); err != nil {
		return nil, errorsmod.Wrap(ErrCodec, err.Error())
	}
	return buf.Bytes(), nil
}

// DecodeInstruction parses instruction data. Unknown tags, truncated payloads
// and trailing bytes are rejected with ErrInvalidInstruction.
func DecodeInstruction(data []byte) (Msg, error) {
	if len(data) == 0 {
		return nil, errorsmod.Wrap(ErrInvalidInstruction, "empty instruction data")
	}
	var msg Msg
	switch InstructionKind(data[0]) {
	case InstructionInitializeBridge:
		msg = &MsgInitializeBridge{}
	case InstructionAddBlockchain:
		msg = &MsgAddBlockchain{}
	case InstructionAddValidator:
		msg = &MsgAddValidator{}
	case InstructionAddSignature:
		msg = &MsgAddSignature{}
	default:
		return nil, errorsmod.Wrapf(ErrInvalidInstruction, "unknown instruction tag %d", data[0])
	}
	dec := bin.NewBorshDecoder(data[1:])
	if err := msg.UnmarshalWithDecoder(dec); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidInstruction, "%s: %s", msg.Kind(), err)
	}
	if dec.Remaining() != 0 {
		return nil, errorsmod.Wrapf(ErrInvalidInstruction, "%s: %d trailing bytes", msg.Kind(), dec.Remaining())
	}
	return msg, nil
}
