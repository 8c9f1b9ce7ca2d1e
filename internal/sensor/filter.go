package sensor

import "sort"

// Median returns the median of the sample window: the middle value for odd
// windows, the mean of the two middle values for even ones. An empty window
// yields 0.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	tmp := make([]float64, n)
	copy(tmp, values)
	sort.Float64s(tmp)
	if n%2 == 1 {
		return tmp[n/2]
	}
	return (tmp[n/2-1] + tmp[n/2]) / 2
}
