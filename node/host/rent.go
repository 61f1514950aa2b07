package host

import "github.com/allbridge-io/allbridge-master-contract/x/bridge/types"

const (
	// AccountStorageOverhead is charged on top of the data size of every account.
	AccountStorageOverhead = 128

	DefaultLamportsPerByteYear = 3480
	DefaultExemptionThreshold  = 2.0
)

var _ types.Rent = Rent{}

// Rent is the permanence model: an account is exempt once it holds the
// rent for ExemptionThreshold years of its storage.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
}

func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
	}
}

// MinimumBalance is the smallest exempt balance for size bytes of data.
func (r Rent) MinimumBalance(size uint64) uint64 {
	bytesYear := (AccountStorageOverhead + size) * r.LamportsPerByteYear
	return uint64(float64(bytesYear) * r.ExemptionThreshold)
}

func (r Rent) IsExempt(lamports, size uint64) bool {
	return lamports >= r.MinimumBalance(size)
}
