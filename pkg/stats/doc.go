// Package stats holds the per-question response statistics that peerplot
// draws, together with the two pure transformations applied to them before
// any rendering happens.
//
// # Data
//
// A [Question] carries a [ConfidenceMatrix] (relative weight of the four
// [Category] values easy, hard, tricky and peer) and a pair of
// [FrequencyTable] values in [Frequencies]: how often each answer choice was
// picked first and second.
//
// # Classification
//
// [Classify] picks the dominant category of a matrix. Categories are scanned
// in [Categories] order and only a strictly greater value replaces the current
// best, so an exact tie resolves to the earlier category in that order. A
// matrix whose maximum is zero has no classification.
//
//	c := stats.Classify(q.Matrix)
//	if c.OK() {
//	    fmt.Println(c.Label()) // "Tricky"
//	}
//
// # Normalization
//
// [Normalize] divides both frequency tables by the total of the first-choice
// table. An empty or all-zero first-choice table yields [ErrNoData] instead
// of NaN values.
//
//	norm, err := stats.Normalize(q.Freq)
//	if errors.Is(err, stats.ErrNoData) {
//	    // nothing to draw for the bar charts
//	}
//
// Neither transformation mutates its input.
package stats
