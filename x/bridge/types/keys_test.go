package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeeds(t *testing.T) {
	eth := MustParseChainID("ETH")
	var txID TxID
	for i := range txID {
		txID[i] = byte(i)
	}

	tests := []struct {
		name string
		seed func() (string, error)
		want string
	}{
		{"blockchain", func() (string, error) { return BlockchainSeed(eth) }, "blockchain_ETH"},
		{"validator", func() (string, error) { return ValidatorSeed(eth, 3) }, "validator_ETH_3"},
		{"lock", func() (string, error) { return LockSeed(eth, txID, false) }, "lock_ETH_00010203040506070809"},
		{"revert", func() (string, error) { return LockSeed(eth, txID, true) }, "revert_ETH_00010203040506070809"},
		{"signature", func() (string, error) { return SignatureSeed(eth, 12, 0, false) }, "signature_lock_ETH_12_0"},
		{"revert signature", func() (string, error) { return SignatureSeed(eth, 12, 1, true) }, "signature_revert_ETH_12_1"},
		{"user", func() (string, error) { return UserSeed(eth) }, "user_ETH"},
		{"sent", func() (string, error) { return LegSeed(LegSent, eth, 0) }, "sent_ETH_0"},
		{"received", func() (string, error) { return LegSeed(LegReceived, eth, 5) }, "received_ETH_5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.seed()
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLockSeedFitsForFullWidthChains(t *testing.T) {
	seed, err := LockSeed(MustParseChainID("AVAX"), TxID{}, true)
	require.NoError(t, err)
	require.Len(t, seed, MaxSeedLength)
	require.True(t, strings.HasPrefix(seed, "revert_AVAX_"))
}

func TestSeedErrors(t *testing.T) {
	_, err := LegSeed(LegKind("minted"), MustParseChainID("ETH"), 0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = UserSeed(ChainID{0xff})
	require.ErrorIs(t, err, ErrCodec)
}
