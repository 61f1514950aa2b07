package host

import (
	"context"
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// System instruction tags, as encoded by solana-go's programs/system.
const (
	systemCreateAccount uint32 = 0
	systemTransfer      uint32 = 2
)

// systemProgram is the native program owning every fresh address. It
// supports the two instructions needed to create and fund accounts.
type systemProgram struct{}

func (systemProgram) ProcessInstruction(_ context.Context, _ types.Host, accounts []*types.AccountInfo, data []byte) error {
	dec := bin.NewBinDecoder(data)
	tag, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return errorsmod.Wrap(types.ErrInvalidInstruction, "system instruction tag")
	}

	switch tag {
	case systemCreateAccount:
		lamports, space, owner, err := decodeCreateAccount(dec)
		if err != nil {
			return err
		}
		if len(accounts) < 2 {
			return errorsmod.Wrap(types.ErrNotEnoughAccountKeys, "create account needs funding and new accounts")
		}
		from, to := accounts[0], accounts[1]
		if err := requireSystemSigner(from, "funding"); err != nil {
			return err
		}
		if err := requireSystemSigner(to, "new"); err != nil {
			return err
		}
		if err := debit(from, lamports); err != nil {
			return err
		}
		return assignNew(to, lamports, space, owner)

	case systemTransfer:
		lamports, err := dec.ReadUint64(binary.LittleEndian)
		if err != nil {
			return errorsmod.Wrap(types.ErrInvalidInstruction, "transfer lamports")
		}
		if len(accounts) < 2 {
			return errorsmod.Wrap(types.ErrNotEnoughAccountKeys, "transfer needs from and to accounts")
		}
		from, to := accounts[0], accounts[1]
		if err := requireSystemSigner(from, "from"); err != nil {
			return err
		}
		if !to.IsWritable {
			return errorsmod.Wrapf(types.ErrAccountNotWritable, "to %s", to.Key)
		}
		if err := debit(from, lamports); err != nil {
			return err
		}
		to.Lamports += lamports
		return nil

	default:
		return errorsmod.Wrapf(types.ErrInvalidInstruction, "unsupported system instruction %d", tag)
	}
}

func decodeCreateAccount(dec *bin.Decoder) (uint64, uint64, solana.PublicKey, error) {
	var owner solana.PublicKey
	lamports, err := dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		return 0, 0, owner, errorsmod.Wrap(types.ErrInvalidInstruction, "create account lamports")
	}
	space, err := dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		return 0, 0, owner, errorsmod.Wrap(types.ErrInvalidInstruction, "create account space")
	}
	raw, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return 0, 0, owner, errorsmod.Wrap(types.ErrInvalidInstruction, "create account owner")
	}
	copy(owner[:], raw)
	return lamports, space, owner, nil
}

func requireSystemSigner(acc *types.AccountInfo, what string) error {
	if !acc.IsSigner {
		return errorsmod.Wrapf(types.ErrMissingSignature, "%s account %s", what, acc.Key)
	}
	if !acc.IsWritable {
		return errorsmod.Wrapf(types.ErrAccountNotWritable, "%s account %s", what, acc.Key)
	}
	return nil
}

// debit moves lamports out of a plain system account.
func debit(from *types.AccountInfo, lamports uint64) error {
	if !from.Owner.Equals(solana.SystemProgramID) || !from.DataIsEmpty() {
		return errorsmod.Wrapf(types.ErrInvalidAccountOwner, "%s cannot fund: it carries data or is program owned", from.Key)
	}
	if from.Lamports < lamports {
		return errorsmod.Wrapf(types.ErrInsufficientFunds, "%s holds %d lamports, needs %d", from.Key, from.Lamports, lamports)
	}
	from.Lamports -= lamports
	return nil
}

// assignNew turns an unused address into an account of owner with space
// zeroed bytes.
func assignNew(acc *types.AccountInfo, lamports, space uint64, owner solana.PublicKey) error {
	if acc.Lamports != 0 || !acc.DataIsEmpty() || !acc.Owner.Equals(solana.SystemProgramID) {
		return errorsmod.Wrapf(types.ErrAccountAlreadyInUse, "account %s", acc.Key)
	}
	if space > MaxAccountDataSize {
		return errorsmod.Wrapf(types.ErrInvalidArgument, "space %d exceeds %d", space, MaxAccountDataSize)
	}
	acc.Lamports = lamports
	acc.Owner = owner
	acc.Data = make([]byte, space)
	return nil
}
