package pda

import (
	"github.com/gagliardetto/solana-go"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// Deriver resolves every record of one program deployment to its address.
// Each method returns the address together with the seed string it was
// derived from.
type Deriver struct {
	ProgramID solana.PublicKey
}

func NewDeriver(programID solana.PublicKey) Deriver {
	return Deriver{ProgramID: programID}
}

// BridgeAuthority is the signer for every record stored under bridge.
func (d Deriver) BridgeAuthority(bridge solana.PublicKey) (Authority, error) {
	return DeriveAuthority(bridge[:], d.ProgramID)
}

// UserAuthority is the signer for the User record and legs of address.
func (d Deriver) UserAuthority(address types.Address) (Authority, error) {
	return DeriveAuthority(address[:], d.ProgramID)
}

func (d Deriver) Blockchain(bridgeAuthority solana.PublicKey, chain types.ChainID) (solana.PublicKey, string, error) {
	return d.derive(bridgeAuthority, func() (string, error) { return types.BlockchainSeed(chain) })
}

func (d Deriver) Validator(bridgeAuthority solana.PublicKey, chain types.ChainID, index uint64) (solana.PublicKey, string, error) {
	return d.derive(bridgeAuthority, func() (string, error) { return types.ValidatorSeed(chain, index) })
}

func (d Deriver) Lock(bridgeAuthority solana.PublicKey, source types.ChainID, txID types.TxID, revert bool) (solana.PublicKey, string, error) {
	return d.derive(bridgeAuthority, func() (string, error) { return types.LockSeed(source, txID, revert) })
}

func (d Deriver) Signature(
	bridgeAuthority solana.PublicKey,
	source types.ChainID,
	lockID, validatorIndex uint64,
	revert bool,
) (solana.PublicKey, string, error) {
	return d.derive(bridgeAuthority, func() (string, error) {
		return types.SignatureSeed(source, lockID, validatorIndex, revert)
	})
}

func (d Deriver) User(userAuthority solana.PublicKey, chain types.ChainID) (solana.PublicKey, string, error) {
	return d.derive(userAuthority, func() (string, error) { return types.UserSeed(chain) })
}

// Leg is the address of the index-th sent or received LockTx of a user.
func (d Deriver) Leg(userAuthority solana.PublicKey, kind types.LegKind, chain types.ChainID, index uint64) (solana.PublicKey, string, error) {
	return d.derive(userAuthority, func() (string, error) { return types.LegSeed(kind, chain, index) })
}

func (d Deriver) derive(authority solana.PublicKey, seedFn func() (string, error)) (solana.PublicKey, string, error) {
	seed, err := seedFn()
	if err != nil {
		return solana.PublicKey{}, "", err
	}
	addr, err := DeriveStorageAddress(authority, seed, d.ProgramID)
	if err != nil {
		return solana.PublicKey{}, "", err
	}
	return addr, seed, nil
}
