package resource

// Kind identifies what a machine does. There is no behavioral difference
// between kinds beyond the tag; filtering and display are the only users.
type Kind string

const (
	KindWasher Kind = "washer"
	KindDryer  Kind = "dryer"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindWasher, KindDryer:
		return true
	default:
		return false
	}
}
