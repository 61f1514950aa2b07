package types

// Presence is the state of one derived address.
type Presence uint8

const (
	// Absent: no storage was ever allocated at the address.
	Absent Presence = iota
	// Allocated: storage exists but holds no current-version record.
	Allocated
	// Initialized: storage holds a current-version record.
	Initialized
)

func (p Presence) String() string {
	switch p {
	case Absent:
		return "absent"
	case Allocated:
		return "allocated"
	case Initialized:
		return "initialized"
	default:
		return "unknown"
	}
}

// Load decodes the record stored in data into r and reports its presence.
func Load(data []byte, r Record) (Presence, error) {
	if len(data) == 0 {
		return Absent, nil
	}
	if err := Unmarshal(data, r); err != nil {
		return Allocated, err
	}
	if !r.IsInitialized() {
		return Allocated, nil
	}
	return Initialized, nil
}
