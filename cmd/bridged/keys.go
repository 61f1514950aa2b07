package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const keysSubdir = "keys"

func (e env) keyPath(name string) string {
	return filepath.Join(e.home(), keysSubdir, name+".json")
}

// loadKey resolves ref as a key name under <home>/keys or, when it looks
// like a path, as a keygen JSON file.
func (e env) loadKey(ref string) (solana.PrivateKey, error) {
	path := ref
	if !strings.ContainsRune(ref, os.PathSeparator) && !strings.HasSuffix(ref, ".json") {
		path = e.keyPath(ref)
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load key %q", ref)
	}
	return key, nil
}

// loadPublicKey accepts a base58 key or the name of a stored key.
func (e env) loadPublicKey(ref string) (solana.PublicKey, error) {
	if pk, err := solana.PublicKeyFromBase58(ref); err == nil {
		return pk, nil
	}
	key, err := e.loadKey(ref)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return key.PublicKey(), nil
}

// writeKeygenFile stores key as a JSON byte array, the format read by
// PrivateKeyFromSolanaKeygenFile.
func writeKeygenFile(path string, key solana.PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create keys directory")
	}
	data, err := json.Marshal(lo.Map(key, func(b byte, _ int) int { return int(b) }))
	if err != nil {
		return errors.Wrap(err, "failed to encode key")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o600), "failed to write key file")
}

func keysCmd(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage local signing keys",
	}
	cmd.AddCommand(keysAddCmd(e), keysShowCmd(e))
	return cmd
}

func keysAddCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Generate a new ed25519 key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := e.keyPath(args[0])
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("key with name '%s' already exists", args[0])
			}
			key, err := solana.NewRandomPrivateKey()
			if err != nil {
				return err
			}
			if err := writeKeygenFile(path, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\nPublic Key: %s\n", args[0], key.PublicKey())
			return nil
		},
	}
}

func keysShowCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the public key of a stored key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := e.loadKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key.PublicKey().String())
			return nil
		},
	}
}
