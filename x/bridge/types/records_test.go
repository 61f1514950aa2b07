package types

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func sampleTerms() LockTerms {
	terms := LockTerms{
		LockID:      9,
		TokenSource: MustParseChainID("ETH"),
		Source:      MustParseChainID("ETH"),
		Destination: MustParseChainID("SOL"),
		Amount:      1000,
	}
	terms.TxID[0] = 0xaa
	terms.Sender[31] = 1
	terms.Recipient[31] = 2
	terms.TokenSourceAddress[31] = 3
	return terms
}

func TestRecordLengths(t *testing.T) {
	key := solana.MustPublicKeyFromBase58("2svg2dmcS8L3s2GyBBjfoeQW89Rx1zH3rkDC5EhmpXVi")
	bridge := NewBridge(key)
	blockchain := NewBlockchain(key, MustParseChainID("ETH"), Address{1})
	validator := NewValidator(MustParseChainID("ETH"), 3, PubKey{2}, key)
	lock := NewLock(4, key, sampleTerms())
	signature := NewSignature(MustParseChainID("ETH"), 9, key, OracleSignature{5}, key, 3)
	user := NewUser(MustParseChainID("SOL"), Address{6})
	lockTx := NewLockTx(TxID{7}, MustParseChainID("ETH"), 9, key, true)

	records := []Record{&bridge, &blockchain, &validator, &lock, &signature, &user, &lockTx}
	for _, r := range records {
		bz, err := Marshal(r)
		require.NoError(t, err)
		require.Len(t, bz, r.Len(), "%T", r)
		require.True(t, r.IsInitialized())
	}
}

func TestBridgeLayout(t *testing.T) {
	owner := solana.MustPublicKeyFromBase58("11111111111111111111111111111112")
	b := NewBridge(owner)

	bz, err := Marshal(&b)
	require.NoError(t, err)
	require.Equal(t, byte(CurrentVersion), bz[0])
	require.Equal(t, owner[:], bz[1:])
}

func TestUserLayout(t *testing.T) {
	u := NewUser(MustParseChainID("SOL"), Address{0xee})
	u.Sent = 2
	u.Received = 0x0102

	bz, err := Marshal(&u)
	require.NoError(t, err)
	require.Equal(t, []byte{'S', 'O', 'L', 0}, bz[1:5])
	require.Equal(t, byte(0xee), bz[5])
	require.Equal(t, []byte{2, 0, 0, 0, 0, 0, 0, 0}, bz[37:45])
	require.Equal(t, []byte{2, 1, 0, 0, 0, 0, 0, 0}, bz[45:53])
}

func TestLoadPresence(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		var l Lock
		p, err := Load(nil, &l)
		require.NoError(t, err)
		require.Equal(t, Absent, p)
	})

	t.Run("zeroed allocation", func(t *testing.T) {
		var l Lock
		p, err := Load(make([]byte, LockLen), &l)
		require.NoError(t, err)
		require.Equal(t, Allocated, p)
	})

	t.Run("initialized", func(t *testing.T) {
		lock := NewLock(0, solana.PublicKey{}, sampleTerms())
		data := make([]byte, LockLen)
		require.NoError(t, WriteRecord(data, &lock))

		var got Lock
		p, err := Load(data, &got)
		require.NoError(t, err)
		require.Equal(t, Initialized, p)
		require.Equal(t, lock, got)
	})

	t.Run("short buffer", func(t *testing.T) {
		var l Lock
		p, err := Load(make([]byte, 10), &l)
		require.ErrorIs(t, err, ErrInvalidAccountData)
		require.Equal(t, Allocated, p)
	})

	t.Run("write into a small account", func(t *testing.T) {
		lock := NewLock(0, solana.PublicKey{}, sampleTerms())
		err := WriteRecord(make([]byte, LockLen-1), &lock)
		require.ErrorIs(t, err, ErrInvalidAccountData)
	})

	require.Equal(t, "initialized", Initialized.String())
	require.Equal(t, "unknown", Presence(9).String())
}

func TestLockMismatchedField(t *testing.T) {
	lock := NewLock(0, solana.PublicKey{}, sampleTerms())
	require.Empty(t, lock.MismatchedField(sampleTerms()))
	require.Equal(t, sampleTerms(), lock.Terms())

	tests := []struct {
		field  string
		mutate func(*LockTerms)
	}{
		{"lock_id", func(c *LockTerms) { c.LockID++ }},
		{"tx_id", func(c *LockTerms) { c.TxID[1] = 1 }},
		{"token_source", func(c *LockTerms) { c.TokenSource = MustParseChainID("BSC") }},
		{"token_source_address", func(c *LockTerms) { c.TokenSourceAddress[0] = 1 }},
		{"source", func(c *LockTerms) { c.Source = MustParseChainID("BSC") }},
		{"sender", func(c *LockTerms) { c.Sender[0] = 1 }},
		{"recipient", func(c *LockTerms) { c.Recipient[0] = 1 }},
		{"destination", func(c *LockTerms) { c.Destination = MustParseChainID("BSC") }},
		{"amount", func(c *LockTerms) { c.Amount = 1 }},
	}
	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			claim := sampleTerms()
			tc.mutate(&claim)
			require.Equal(t, tc.field, lock.MismatchedField(claim))
		})
	}
}

func TestUserCounters(t *testing.T) {
	u := NewUser(MustParseChainID("ETH"), Address{})
	u.Advance(LegSent)
	u.Advance(LegSent)
	u.Advance(LegReceived)
	require.EqualValues(t, 2, u.Counter(LegSent))
	require.EqualValues(t, 1, u.Counter(LegReceived))
}
