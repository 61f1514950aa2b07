package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/allbridge-io/allbridge-master-contract/x/bridge/keeper"
	"github.com/allbridge-io/allbridge-master-contract/x/bridge/types"
)

// Output formats
const (
	OutputFormatYAML  = "yaml"
	OutputFormatJSON  = "json"
	OutputFormatTable = "table"
)

const flagOutput = "output"

func queryCmd(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query",
		Aliases: []string{"q"},
		Short:   "Query the local ledger",
	}
	cmd.PersistentFlags().StringP(flagOutput, "o", OutputFormatYAML, "Output format (yaml|json|table)")

	cmd.AddCommand(
		queryBridgeCmd(e),
		queryBlockchainCmd(e),
		queryValidatorsCmd(e),
		queryLockCmd(e),
		queryUserCmd(e),
		queryHistoryCmd(e),
	)
	return cmd
}

// query opens the node, runs fn and prints its result or "not found".
func (e env) query(cmd *cobra.Command, fn func(q keeper.Querier) (interface{}, bool, error)) error {
	format, _ := cmd.Flags().GetString(flagOutput)
	node, err := e.openNode(true)
	if err != nil {
		return err
	}
	defer node.Close()

	out, found, err := fn(node.Querier())
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("not found")
	}
	return printOutput(cmd.OutOrStdout(), out, format)
}

func queryBridgeCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "bridge <bridge>",
		Short: "Show a bridge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bridge, err := solana.PublicKeyFromBase58(args[0])
			if err != nil {
				return err
			}
			return e.query(cmd, func(q keeper.Querier) (interface{}, bool, error) {
				return q.Bridge(cmd.Context(), bridge)
			})
		},
	}
}

func queryBlockchainCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "blockchain <bridge> <chain>",
		Short: "Show a registered blockchain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bridge, chain, err := parseBridgeChain(args[0], args[1])
			if err != nil {
				return err
			}
			return e.query(cmd, func(q keeper.Querier) (interface{}, bool, error) {
				return q.Blockchain(cmd.Context(), bridge, chain)
			})
		},
	}
}

// ValidatorsOutput lists the validators of one chain.
type ValidatorsOutput struct {
	Validators []keeper.Entry[types.Validator] `json:"validators"`
}

func queryValidatorsCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "validators <bridge> <chain>",
		Short: "List the validators of a blockchain",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bridge, chain, err := parseBridgeChain(args[0], args[1])
			if err != nil {
				return err
			}
			return e.query(cmd, func(q keeper.Querier) (interface{}, bool, error) {
				validators, found, err := q.Validators(cmd.Context(), bridge, chain)
				return ValidatorsOutput{Validators: validators}, found, err
			})
		},
	}
}

// LockOutput is a lock with the signatures recorded for it.
type LockOutput struct {
	Lock       keeper.Entry[types.Lock]        `json:"lock"`
	Signatures []keeper.Entry[types.Signature] `json:"signatures"`
}

func queryLockCmd(e env) *cobra.Command {
	var revert bool

	cmd := &cobra.Command{
		Use:   "lock <bridge> <source> <tx-id>",
		Short: "Show a lock and its signatures",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			bridge, source, err := parseBridgeChain(args[0], args[1])
			if err != nil {
				return err
			}
			txID, err := types.TxIDFromHex(args[2])
			if err != nil {
				return err
			}
			return e.query(cmd, func(q keeper.Querier) (interface{}, bool, error) {
				lock, found, err := q.Lock(cmd.Context(), bridge, source, txID, revert)
				if err != nil || !found {
					return nil, found, err
				}
				sigs, _, err := q.Signatures(cmd.Context(), bridge, source, txID, revert)
				return LockOutput{Lock: lock, Signatures: sigs}, true, err
			})
		},
	}

	cmd.Flags().BoolVar(&revert, "revert", false, "Show the revert lock")
	return cmd
}

func queryUserCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "user <chain> <address>",
		Short: "Show the transfer counters of a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, address, err := parseChainAddress(args[0], args[1])
			if err != nil {
				return err
			}
			return e.query(cmd, func(q keeper.Querier) (interface{}, bool, error) {
				return q.User(cmd.Context(), chain, address)
			})
		},
	}
}

// HistoryOutput is one side of a user's transfer history.
type HistoryOutput struct {
	Kind  types.LegKind        `json:"kind"`
	Items []keeper.HistoryItem `json:"items"`
}

func queryHistoryCmd(e env) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "history <chain> <address>",
		Short: "List the sent or received transfers of a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, address, err := parseChainAddress(args[0], args[1])
			if err != nil {
				return err
			}
			legKind := types.LegKind(kind)
			if legKind != types.LegSent && legKind != types.LegReceived {
				return fmt.Errorf("--kind must be %q or %q", types.LegSent, types.LegReceived)
			}
			return e.query(cmd, func(q keeper.Querier) (interface{}, bool, error) {
				items, err := q.History(cmd.Context(), legKind, chain, address)
				return HistoryOutput{Kind: legKind, Items: items}, true, err
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(types.LegSent), "sent|received")
	return cmd
}

func parseBridgeChain(rawBridge, rawChain string) (solana.PublicKey, types.ChainID, error) {
	bridge, err := solana.PublicKeyFromBase58(rawBridge)
	if err != nil {
		return solana.PublicKey{}, types.ChainID{}, fmt.Errorf("invalid bridge %q: %w", rawBridge, err)
	}
	chain, err := types.ParseChainID(rawChain)
	return bridge, chain, err
}

func parseChainAddress(rawChain, rawAddress string) (types.ChainID, types.Address, error) {
	chain, err := types.ParseChainID(rawChain)
	if err != nil {
		return types.ChainID{}, types.Address{}, err
	}
	address, err := types.AddressFromHex(rawAddress)
	return chain, address, err
}

// printOutput renders output as JSON, YAML or a table. YAML and tables are
// derived from the JSON form so field names match the HTTP API.
func printOutput(w io.Writer, output interface{}, format string) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	switch format {
	case OutputFormatJSON:
		_, err = fmt.Fprintln(w, string(data))
		return err
	case OutputFormatYAML:
		var doc yaml.MapSlice
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to convert output: %w", err)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, err = w.Write(out)
		return err
	case OutputFormatTable:
		return printTable(w, output, data)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func printTable(w io.Writer, output interface{}, data []byte) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	switch out := output.(type) {
	case HistoryOutput:
		t.AppendHeader(table.Row{"#", "Tx ID", "Source", "Lock ID", "Reverted", "Amount", "Signatures"})
		t.AppendRows(lo.Map(out.Items, func(item keeper.HistoryItem, _ int) table.Row {
			row := table.Row{item.Index, item.Leg.Record.TxID, item.Leg.Record.Source, item.Leg.Record.LockID, item.Leg.Record.Reverted, "-", "-"}
			if item.Lock != nil {
				row[5], row[6] = item.Lock.Record.Amount, item.Lock.Record.Signatures
			}
			return row
		}))
	case ValidatorsOutput:
		t.AppendHeader(table.Row{"Index", "Address", "Owner", "Public Key"})
		t.AppendRows(lo.Map(out.Validators, func(v keeper.Entry[types.Validator], _ int) table.Row {
			return table.Row{v.Record.Index, v.Address, v.Record.Owner, v.Record.PubKey}
		}))
	default:
		var fields map[string]interface{}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return fmt.Errorf("failed to convert output: %w", err)
		}
		flat := map[string]string{}
		flatten("", fields, flat)
		keys := lo.Keys(flat)
		sort.Strings(keys)
		t.AppendHeader(table.Row{"Field", "Value"})
		for _, k := range keys {
			t.AppendRow(table.Row{k, flat[k]})
		}
	}
	t.Render()
	return nil
}

func flatten(prefix string, value interface{}, out map[string]string) {
	switch v := value.(type) {
	case map[string]interface{}:
		for k, child := range v {
			flatten(joinKey(prefix, k), child, out)
		}
	case []interface{}:
		for i, child := range v {
			flatten(joinKey(prefix, strconv.Itoa(i)), child, out)
		}
	default:
		out[prefix] = fmt.Sprint(v)
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
