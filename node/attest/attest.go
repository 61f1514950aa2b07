// Package attest builds and checks validator attestations on locks. The
// ledger only stores the signature bytes; relayers use this package to
// produce them and to count valid ones toward their quorum.
package attest

import (
	"crypto/ecdsa"
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// Digest is keccak256 over the immutable lock terms and the revert flag.
// Amounts and lock ids are big-endian, chain ids use their 4 byte field.
func Digest(terms types.LockTerms, revert bool) common.Hash {
	buf := make([]byte, 0, 4+32+4+64+8+4+32+32+8+1)
	buf = append(buf, terms.TokenSource[:]...)
	buf = append(buf, terms.TokenSourceAddress[:]...)
	buf = append(buf, terms.Source[:]...)
	buf = append(buf, terms.TxID[:]...)
	buf = binary.BigEndian.AppendUint64(buf, terms.LockID)
	buf = append(buf, terms.Destination[:]...)
	buf = append(buf, terms.Sender[:]...)
	buf = append(buf, terms.Recipient[:]...)
	buf = binary.BigEndian.AppendUint64(buf, terms.Amount)
	if revert {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	return crypto.Keccak256Hash(buf)
}

// DigestMsg computes the digest of the transfer claimed by msg.
func DigestMsg(msg *types.MsgAddSignature) (common.Hash, error) {
	terms, err := msg.Terms()
	if err != nil {
		return common.Hash{}, err
	}
	return Digest(terms, msg.Revert), nil
}

// Sign produces the 65 byte [R || S || V] signature of digest.
func Sign(key *ecdsa.PrivateKey, digest common.Hash) (types.OracleSignature, error) {
	var out types.OracleSignature
	sig, err := crypto.Sign(digest.Bytes(), key)
	if err != nil {
		return out, errorsmod.Wrap(types.ErrInvalidArgument, err.Error())
	}
	copy(out[:], sig)
	return out, nil
}

// RecoverAddress returns the Ethereum address that produced sig.
func RecoverAddress(digest common.Hash, sig types.OracleSignature) (common.Address, error) {
	pub, err := crypto.SigToPub(digest.Bytes(), sig[:])
	if err != nil {
		return common.Address{}, errorsmod.Wrap(types.ErrInvalidArgument, err.Error())
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// PubKeyFromAddress left-pads an Ethereum address into a validator key.
func PubKeyFromAddress(addr common.Address) types.PubKey {
	var pk types.PubKey
	copy(pk[types.PubKeyLength-common.AddressLength:], addr.Bytes())
	return pk
}

// AddressFromPubKey is the inverse of PubKeyFromAddress.
func AddressFromPubKey(pk types.PubKey) common.Address {
	return common.BytesToAddress(pk[types.PubKeyLength-common.AddressLength:])
}

// Verify reports whether sig over digest was made by the validator key pk.
func Verify(digest common.Hash, sig types.OracleSignature, pk types.PubKey) bool {
	addr, err := RecoverAddress(digest, sig)
	if err != nil {
		return false
	}
	return addr == AddressFromPubKey(pk)
}
