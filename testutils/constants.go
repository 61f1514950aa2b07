package testutils

import "github.com/allbridge-io/allbridge-master-contract/x/bridge/types"

const (
	ChainETH = "ETH"
	ChainSOL = "SOL"
	ChainBSC = "BSC"

	// Airdrop is the balance handed to every funded test key.
	Airdrop uint64 = 10_000_000_000
)

var (
	SenderAddress    = addressOf(0x11)
	RecipientAddress = addressOf(0x22)
	TokenAddress     = addressOf(0x33)
	ContractAddress  = addressOf(0x44)
)

func addressOf(fill byte) types.Address {
	var a types.Address
	for i := range a {
		a[i] = fill
	}
	return a
}

// TxIDOf returns a transaction id whose first byte is n.
func TxIDOf(n byte) types.TxID {
	var id types.TxID
	id[0] = n
	id[types.TxIDLength-1] = 0xff
	return id
}
