// Package client builds bridge program instructions. Every address an
// instruction needs is derived here, so callers only deal in semantic keys.
package client

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/pda"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// Builder produces instructions for one program deployment.
type Builder struct {
	programID solana.PublicKey
	deriver   pda.Deriver
}

func NewBuilder(programID solana.PublicKey) Builder {
	return Builder{programID: programID, deriver: pda.NewDeriver(programID)}
}

func (b Builder) ProgramID() solana.PublicKey { return b.programID }

func (b Builder) instruction(msg types.Msg, accounts solana.AccountMetaSlice) (solana.Instruction, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	data, err := types.EncodeInstruction(msg)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(b.programID, accounts, data), nil
}

// InitializeBridge initializes bridge, which must already be allocated to
// the program with types.BridgeLen bytes.
func (b Builder) InitializeBridge(bridge, owner solana.PublicKey) (solana.Instruction, error) {
	return b.instruction(&types.MsgInitializeBridge{}, solana.AccountMetaSlice{
		solana.Meta(bridge).WRITE(),
		solana.Meta(owner).SIGNER(),
	})
}

// CreateBridge allocates a fresh bridge account to the program and
// initializes it in the same transaction. payer and bridge must sign.
func (b Builder) CreateBridge(payer, bridge, owner solana.PublicKey, rent types.Rent) ([]solana.Instruction, error) {
	create := system.NewCreateAccountInstruction(
		rent.MinimumBalance(types.BridgeLen),
		types.BridgeLen,
		b.programID,
		payer,
		bridge,
	).Build()
	initialize, err := b.InitializeBridge(bridge, owner)
	if err != nil {
		return nil, err
	}
	return []solana.Instruction{create, initialize}, nil
}

// AddBlockchain registers msg.BlockchainID on bridge, paid by payer.
func (b Builder) AddBlockchain(bridge, payer solana.PublicKey, msg *types.MsgAddBlockchain) (solana.Instruction, error) {
	chain, err := types.ParseChainID(msg.BlockchainID)
	if err != nil {
		return nil, err
	}
	authority, err := b.deriver.BridgeAuthority(bridge)
	if err != nil {
		return nil, err
	}
	blockchain, _, err := b.deriver.Blockchain(authority.Key, chain)
	if err != nil {
		return nil, err
	}
	return b.instruction(msg, solana.AccountMetaSlice{
		solana.Meta(bridge),
		solana.Meta(blockchain).WRITE(),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(authority.Key),
	})
}

// AddValidator registers a validator at index, which must be the current
// validator count of the chain.
func (b Builder) AddValidator(bridge, payer solana.PublicKey, index uint64, msg *types.MsgAddValidator) (solana.Instruction, error) {
	chain, err := types.ParseChainID(msg.BlockchainID)
	if err != nil {
		return nil, err
	}
	authority, err := b.deriver.BridgeAuthority(bridge)
	if err != nil {
		return nil, err
	}
	blockchain, _, err := b.deriver.Blockchain(authority.Key, chain)
	if err != nil {
		return nil, err
	}
	validator, _, err := b.deriver.Validator(authority.Key, chain, index)
	if err != nil {
		return nil, err
	}
	return b.instruction(msg, solana.AccountMetaSlice{
		solana.Meta(bridge),
		solana.Meta(blockchain).WRITE(),
		solana.Meta(validator).WRITE(),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(authority.Key),
	})
}

// AddSignatureParams are the current counters an AddSignature instruction
// depends on.
type AddSignatureParams struct {
	ValidatorIndex uint64
	SenderSent     uint64 // next sent leg of the sender on the source chain
	RecipientRecv  uint64 // next received leg of the recipient on the destination chain
}

// AddSignature submits msg as validator ValidatorIndex of msg.Source. The
// payer must be the owner of that validator.
func (b Builder) AddSignature(bridge, payer solana.PublicKey, params AddSignatureParams, msg *types.MsgAddSignature) (solana.Instruction, error) {
	terms, err := msg.Terms()
	if err != nil {
		return nil, err
	}
	authority, err := b.deriver.BridgeAuthority(bridge)
	if err != nil {
		return nil, err
	}
	blockchain, _, err := b.deriver.Blockchain(authority.Key, terms.Source)
	if err != nil {
		return nil, err
	}
	validator, _, err := b.deriver.Validator(authority.Key, terms.Source, params.ValidatorIndex)
	if err != nil {
		return nil, err
	}
	lock, _, err := b.deriver.Lock(authority.Key, terms.Source, terms.TxID, msg.Revert)
	if err != nil {
		return nil, err
	}
	signature, _, err := b.deriver.Signature(authority.Key, terms.Source, terms.LockID, params.ValidatorIndex, msg.Revert)
	if err != nil {
		return nil, err
	}
	sender, err := b.legMetas(terms.Sender, types.LegSent, terms.Source, params.SenderSent)
	if err != nil {
		return nil, err
	}
	recipient, err := b.legMetas(terms.Recipient, types.LegReceived, terms.Destination, params.RecipientRecv)
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(bridge),
		solana.Meta(blockchain).WRITE(),
		solana.Meta(validator),
		solana.Meta(lock).WRITE(),
		solana.Meta(signature).WRITE(),
		solana.Meta(authority.Key),
		solana.Meta(payer).WRITE().SIGNER(),
	}
	accounts = append(accounts, sender...)
	accounts = append(accounts, recipient...)
	return b.instruction(msg, accounts)
}

func (b Builder) legMetas(address types.Address, kind types.LegKind, chain types.ChainID, index uint64) (solana.AccountMetaSlice, error) {
	authority, err := b.deriver.UserAuthority(address)
	if err != nil {
		return nil, err
	}
	user, _, err := b.deriver.User(authority.Key, chain)
	if err != nil {
		return nil, err
	}
	leg, _, err := b.deriver.Leg(authority.Key, kind, chain, index)
	if err != nil {
		return nil, err
	}
	return solana.AccountMetaSlice{
		solana.Meta(authority.Key),
		solana.Meta(user).WRITE(),
		solana.Meta(leg).WRITE(),
	}, nil
}

// Resolver fills builder parameters from committed state, the way a relayer
// prepares a submission.
type Resolver struct {
	builder Builder
	reader  types.AccountReader
}

func NewResolver(builder Builder, reader types.AccountReader) Resolver {
	return Resolver{builder: builder, reader: reader}
}

// NextValidatorIndex is the index the next AddValidator of chain lands at.
func (r Resolver) NextValidatorIndex(ctx context.Context, bridge solana.PublicKey, chain types.ChainID) (uint64, error) {
	authority, err := r.builder.deriver.BridgeAuthority(bridge)
	if err != nil {
		return 0, err
	}
	addr, _, err := r.builder.deriver.Blockchain(authority.Key, chain)
	if err != nil {
		return 0, err
	}
	var blockchain types.Blockchain
	found, err := r.read(ctx, addr, &blockchain)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errorsmod.Wrapf(types.ErrUninitializedAccount, "blockchain %s is not registered", chain)
	}
	return blockchain.Validators, nil
}

// AddValidator builds an AddValidator instruction at the next free index.
func (r Resolver) AddValidator(ctx context.Context, bridge, payer solana.PublicKey, msg *types.MsgAddValidator) (solana.Instruction, error) {
	chain, err := types.ParseChainID(msg.BlockchainID)
	if err != nil {
		return nil, err
	}
	index, err := r.NextValidatorIndex(ctx, bridge, chain)
	if err != nil {
		return nil, err
	}
	return r.builder.AddValidator(bridge, payer, index, msg)
}

// AddSignature builds an AddSignature instruction using the current user
// counters of both parties.
func (r Resolver) AddSignature(
	ctx context.Context,
	bridge, payer solana.PublicKey,
	validatorIndex uint64,
	msg *types.MsgAddSignature,
) (solana.Instruction, error) {
	terms, err := msg.Terms()
	if err != nil {
		return nil, err
	}
	sent, err := r.userCounter(ctx, terms.Sender, terms.Source, types.LegSent)
	if err != nil {
		return nil, err
	}
	received, err := r.userCounter(ctx, terms.Recipient, terms.Destination, types.LegReceived)
	if err != nil {
		return nil, err
	}
	return r.builder.AddSignature(bridge, payer, AddSignatureParams{
		ValidatorIndex: validatorIndex,
		SenderSent:     sent,
		RecipientRecv:  received,
	}, msg)
}

func (r Resolver) userCounter(ctx context.Context, address types.Address, chain types.ChainID, kind types.LegKind) (uint64, error) {
	authority, err := r.builder.deriver.UserAuthority(address)
	if err != nil {
		return 0, err
	}
	addr, _, err := r.builder.deriver.User(authority.Key, chain)
	if err != nil {
		return 0, err
	}
	var user types.User
	found, err := r.read(ctx, addr, &user)
	if err != nil || !found {
		return 0, err
	}
	return user.Counter(kind), nil
}

func (r Resolver) read(ctx context.Context, addr solana.PublicKey, rec types.Record) (bool, error) {
	acc, found, err := r.reader.GetAccount(ctx, addr)
	if err != nil || !found {
		return false, err
	}
	presence, err := types.Load(acc.Data, rec)
	if err != nil {
		return false, err
	}
	return presence == types.Initialized, nil
}
