package main

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/allbridge-io/allbridge-master-contract/node/attest"
	"github.com/allbridge-io/allbridge-master-contract/node/core"
	"github.com/allbridge-io/allbridge-master-contract/node/host"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

const flagFrom = "from"

func txCmd(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Submit transactions to the local ledger",
	}
	cmd.PersistentFlags().String(flagFrom, "", "Name or keygen file of the paying signer")

	cmd.AddCommand(
		createBridgeCmd(e),
		addBlockchainCmd(e),
		addValidatorCmd(e),
		addSignatureCmd(e),
		airdropCmd(e),
	)
	return cmd
}

// submit loads the --from key, opens the node and runs build. The paying key
// signs every transaction; build can add further signers.
func (e env) submit(
	cmd *cobra.Command,
	build func(node *core.Node, payer solana.PrivateKey) ([]solana.Instruction, []solana.PrivateKey, error),
) error {
	from, _ := cmd.Flags().GetString(flagFrom)
	if from == "" {
		return fmt.Errorf("--%s is required", flagFrom)
	}
	payer, err := e.loadKey(from)
	if err != nil {
		return err
	}

	node, err := e.openNode(true)
	if err != nil {
		return err
	}
	defer node.Close()

	ixs, extra, err := build(node, payer)
	if err != nil {
		return err
	}
	res, err := node.Submit(cmd.Context(), append([]solana.PrivateKey{payer}, extra...), ixs...)
	if err != nil {
		return err
	}
	return printResult(cmd, res)
}

func printResult(cmd *cobra.Command, res host.Result) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Committed %d instruction(s), %d account(s) written\n", res.Instructions, len(res.Committed))
	for _, key := range res.Committed {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", key)
	}
	return nil
}

func createBridgeCmd(e env) *cobra.Command {
	var owner, bridgeKey string

	cmd := &cobra.Command{
		Use:   "create-bridge",
		Short: "Allocate and initialize a new bridge",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.submit(cmd, func(node *core.Node, payer solana.PrivateKey) ([]solana.Instruction, []solana.PrivateKey, error) {
				ownerKey := payer
				if owner != "" {
					k, err := e.loadKey(owner)
					if err != nil {
						return nil, nil, err
					}
					ownerKey = k
				}

				var bridge solana.PrivateKey
				var err error
				if bridgeKey != "" {
					bridge, err = e.loadKey(bridgeKey)
				} else {
					bridge, err = solana.NewRandomPrivateKey()
				}
				if err != nil {
					return nil, nil, err
				}

				ixs, err := node.Builder().CreateBridge(payer.PublicKey(), bridge.PublicKey(), ownerKey.PublicKey(), node.Runtime().Rent())
				if err != nil {
					return nil, nil, err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Bridge: %s\n", bridge.PublicKey())
				return ixs, []solana.PrivateKey{bridge, ownerKey}, nil
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner key (defaults to --from)")
	cmd.Flags().StringVar(&bridgeKey, "bridge-key", "", "Key for the bridge account (generated if empty)")
	return cmd
}

func addBlockchainCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "add-blockchain <bridge> <chain> <contract-address>",
		Short: "Register a blockchain on a bridge",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			bridge, err := solana.PublicKeyFromBase58(args[0])
			if err != nil {
				return err
			}
			contract, err := types.AddressFromHex(args[2])
			if err != nil {
				return err
			}
			return e.submit(cmd, func(node *core.Node, payer solana.PrivateKey) ([]solana.Instruction, []solana.PrivateKey, error) {
				ix, err := node.Builder().AddBlockchain(bridge, payer.PublicKey(), &types.MsgAddBlockchain{
					BlockchainID:    args[1],
					ContractAddress: contract,
				})
				return []solana.Instruction{ix}, nil, err
			})
		},
	}
}

// parseValidatorKey accepts a 32 byte hex key or a 20 byte Ethereum address.
func parseValidatorKey(input string) (types.PubKey, error) {
	if common.IsHexAddress(input) {
		return attest.PubKeyFromAddress(common.HexToAddress(input)), nil
	}
	return types.PubKeyFromHex(input)
}

func addValidatorCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "add-validator <bridge> <chain> <pub-key|eth-address>",
		Short: "Register the --from key as the next validator of a chain",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			bridge, err := solana.PublicKeyFromBase58(args[0])
			if err != nil {
				return err
			}
			pubKey, err := parseValidatorKey(args[2])
			if err != nil {
				return err
			}
			return e.submit(cmd, func(node *core.Node, payer solana.PrivateKey) ([]solana.Instruction, []solana.PrivateKey, error) {
				ix, err := node.Resolver().AddValidator(cmd.Context(), bridge, payer.PublicKey(), &types.MsgAddValidator{
					BlockchainID: args[1],
					PubKey:       pubKey,
				})
				return []solana.Instruction{ix}, nil, err
			})
		},
	}
}

type signatureFlags struct {
	validatorIndex     uint64
	signature          string
	attestKey          string
	tokenSource        string
	tokenSourceAddress string
	source             string
	txID               string
	lockID             uint64
	destination        string
	sender             string
	recipient          string
	amount             uint64
	revert             bool
}

func (f signatureFlags) msg() (*types.MsgAddSignature, error) {
	msg := &types.MsgAddSignature{
		TokenSource: f.tokenSource,
		Source:      f.source,
		LockID:      f.lockID,
		Destination: f.destination,
		Amount:      f.amount,
		Revert:      f.revert,
	}
	if msg.TokenSource == "" {
		msg.TokenSource = f.source
	}

	var err error
	if msg.TokenSourceAddress, err = types.AddressFromHex(f.tokenSourceAddress); err != nil {
		return nil, err
	}
	if msg.TxID, err = types.TxIDFromHex(f.txID); err != nil {
		return nil, err
	}
	if msg.Sender, err = types.AddressFromHex(f.sender); err != nil {
		return nil, err
	}
	if msg.Recipient, err = types.AddressFromHex(f.recipient); err != nil {
		return nil, err
	}

	switch {
	case f.attestKey != "":
		key, err := crypto.HexToECDSA(f.attestKey)
		if err != nil {
			return nil, fmt.Errorf("invalid attestation key: %w", err)
		}
		digest, err := attest.DigestMsg(msg)
		if err != nil {
			return nil, err
		}
		if msg.Signature, err = attest.Sign(key, digest); err != nil {
			return nil, err
		}
	case f.signature != "":
		if msg.Signature, err = types.OracleSignatureFromHex(f.signature); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("one of --signature or --attest-key is required")
	}
	return msg, nil
}

func addSignatureCmd(e env) *cobra.Command {
	var f signatureFlags

	cmd := &cobra.Command{
		Use:   "add-signature <bridge>",
		Short: "Record a validator signature for a lock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bridge, err := solana.PublicKeyFromBase58(args[0])
			if err != nil {
				return err
			}
			msg, err := f.msg()
			if err != nil {
				return err
			}
			return e.submit(cmd, func(node *core.Node, payer solana.PrivateKey) ([]solana.Instruction, []solana.PrivateKey, error) {
				ix, err := node.Resolver().AddSignature(cmd.Context(), bridge, payer.PublicKey(), f.validatorIndex, msg)
				return []solana.Instruction{ix}, nil, err
			})
		},
	}

	cmd.Flags().Uint64Var(&f.validatorIndex, "validator-index", 0, "Index of the signing validator on the source chain")
	cmd.Flags().StringVar(&f.signature, "signature", "", "65 byte signature hex")
	cmd.Flags().StringVar(&f.attestKey, "attest-key", "", "secp256k1 private key hex to sign the lock with")
	cmd.Flags().StringVar(&f.tokenSource, "token-source", "", "Chain the token originates from (defaults to --source)")
	cmd.Flags().StringVar(&f.tokenSourceAddress, "token-source-address", "", "Token address on its origin chain")
	cmd.Flags().StringVar(&f.source, "source", "", "Source chain")
	cmd.Flags().StringVar(&f.txID, "tx-id", "", "Lock transaction id hex (64 bytes)")
	cmd.Flags().Uint64Var(&f.lockID, "lock-id", 0, "Lock id on the source chain")
	cmd.Flags().StringVar(&f.destination, "destination", "", "Destination chain")
	cmd.Flags().StringVar(&f.sender, "sender", "", "Sender address hex")
	cmd.Flags().StringVar(&f.recipient, "recipient", "", "Recipient address hex")
	cmd.Flags().Uint64Var(&f.amount, "amount", 0, "Locked amount")
	cmd.Flags().BoolVar(&f.revert, "revert", false, "Attest a revert of the lock")
	for _, name := range []string{"source", "destination", "tx-id", "sender", "recipient", "token-source-address"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func airdropCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "airdrop <account> <lamports>",
		Short: "Credit lamports from the development faucet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := e.loadPublicKey(args[0])
			if err != nil {
				return err
			}
			lamports, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid lamports %q: %w", args[1], err)
			}

			node, err := e.openNode(true)
			if err != nil {
				return err
			}
			defer node.Close()

			if err := node.Runtime().Airdrop(cmd.Context(), key, lamports); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Airdropped %d lamports to %s\n", lamports, key)
			return nil
		},
	}
}
