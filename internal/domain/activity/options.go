package activity

// RangeOptions selects samples with Start <= timestamp < End (Unix ms).
type RangeOptions struct {
	Start int64
	End   int64
	Limit int
}
