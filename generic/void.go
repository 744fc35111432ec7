package generic

// Void is a zero-size "no value" type, e.g. for map values where only the presence of a key matters.
type Void = struct{}

// NewVoid creates a new Void value.
func NewVoid() Void {
	return Void{}
}
