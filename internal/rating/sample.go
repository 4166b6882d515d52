package rating

// samplePairs are the fixed rating gaps used by the diagnostic sample table.
// The first entry of each pair is the lower-rated player.
var samplePairs = [][2]int{
	{1200, 1200},
	{1150, 1250},
	{1100, 1300},
	{1050, 1350},
	{1000, 1400},
	{950, 1450},
	{900, 1500},
	{850, 1550},
	{800, 1600},
}

// SamplePoint holds both possible outcomes for one rating gap: the delta
// when the favorite wins and the delta when the underdog wins.
type SamplePoint struct {
	LowRating     int `json:"lowRating"`
	HighRating    int `json:"highRating"`
	ExpectedDelta int `json:"expectedDelta"`
	UpsetDelta    int `json:"upsetDelta"`
}

// Sample evaluates every registered function over the fixed rating pairs.
// Clients use the table to visualize and compare the function curves.
func Sample() map[string][]SamplePoint {
	table := make(map[string][]SamplePoint, len(registry))
	for name, fn := range registry {
		points := make([]SamplePoint, 0, len(samplePairs))
		for _, pair := range samplePairs {
			low, high := pair[0], pair[1]
			points = append(points, SamplePoint{
				LowRating:     low,
				HighRating:    high,
				ExpectedDelta: fn(high, low),
				UpsetDelta:    fn(low, high),
			})
		}
		table[name] = points
	}
	return table
}
