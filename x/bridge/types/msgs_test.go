package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeInstructionLayout(t *testing.T) {
	bz, err := EncodeInstruction(&MsgInitializeBridge{})
	require.NoError(t, err)
	require.Equal(t, []byte{0}, bz)

	msg := &MsgAddBlockchain{BlockchainID: "ETH", ContractAddress: Address{0x01}}
	bz, err = EncodeInstruction(msg)
	require.NoError(t, err)
	// tag | u32 length | "ETH" | 32 byte contract
	require.Len(t, bz, 1+4+3+32)
	require.Equal(t, []byte{1, 3, 0, 0, 0, 'E', 'T', 'H', 0x01}, bz[:9])

	decoded, err := DecodeInstruction(bz)
	require.NoError(t, err)
	require.Equal(t, msg, decoded)
}

func TestDecodeInstructionRejects(t *testing.T) {
	valid, err := EncodeInstruction(&MsgAddValidator{BlockchainID: "SOL", PubKey: PubKey{9}})
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "unknown tag", data: []byte{7}},
		{name: "truncated", data: valid[:len(valid)-1]},
		{name: "trailing bytes", data: append(append([]byte{}, valid...), 0)},
		{name: "string length overflows buffer", data: []byte{1, 0xff, 0xff, 0xff, 0x7f, 'E'}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeInstruction(tc.data)
			require.ErrorIs(t, err, ErrInvalidInstruction)
		})
	}
}

func TestAddSignatureRoundTrip(t *testing.T) {
	msg := &MsgAddSignature{
		Signature:   OracleSignature{1, 2, 3},
		TokenSource: "ETH",
		Source:      "ETH",
		TxID:        TxID{4},
		LockID:      77,
		Destination: "SOL",
		Sender:      Address{5},
		Recipient:   Address{6},
		Amount:      1 << 40,
		Revert:      true,
	}
	bz, err := EncodeInstruction(msg)
	require.NoError(t, err)
	require.Equal(t, byte(InstructionAddSignature), bz[0])

	decoded, err := DecodeInstruction(bz)
	require.NoError(t, err)
	require.Equal(t, msg, decoded)

	terms, err := msg.Terms()
	require.NoError(t, err)
	require.Equal(t, MustParseChainID("SOL"), terms.Destination)
	require.EqualValues(t, 77, terms.LockID)
}

func TestValidateBasic(t *testing.T) {
	require.NoError(t, (&MsgAddBlockchain{BlockchainID: "ETH"}).ValidateBasic())
	require.ErrorIs(t, (&MsgAddBlockchain{BlockchainID: "ETHEREUM"}).ValidateBasic(), ErrCodec)
	require.ErrorIs(t, (&MsgAddValidator{BlockchainID: "\x00"}).ValidateBasic(), ErrCodec)

	sig := &MsgAddSignature{TokenSource: "ETH", Source: "ETH", Destination: "SOL"}
	require.NoError(t, sig.ValidateBasic())

	sig.Destination = ""
	require.ErrorIs(t, sig.ValidateBasic(), ErrInvalidArgument)

	sig.Destination = "TOOLONG"
	require.ErrorIs(t, sig.ValidateBasic(), ErrCodec)

	require.Equal(t, "AddSignature", InstructionAddSignature.String())
	require.Equal(t, "Unknown", InstructionKind(42).String())
}
