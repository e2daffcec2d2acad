package tokenizer

// approximateCounterName identifies the length-based estimator.
const approximateCounterName = "approximate"

// approximateBytesPerToken is the assumed byte length of one token.
const approximateBytesPerToken = 4

// ApproximateCounter estimates tokens from byte length alone. It needs no
// vocabulary, never fails, and is monotonic in input length.
type ApproximateCounter struct{}

func (ApproximateCounter) Name() string {
	return approximateCounterName
}

func (ApproximateCounter) CountString(input string) (int, error) {
	if len(input) == 0 {
		return 0, nil
	}
	return (len(input) + approximateBytesPerToken - 1) / approximateBytesPerToken, nil
}
