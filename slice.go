package varviper

import "fmt"

// maxArraySlices caps how many sub-arrays a rank > 2 array is decomposed
// into. Indices beyond the cap collapse into one placeholder entry.
const maxArraySlices = 50

// sliceArray decomposes a rank > 2 array along its first axis into an
// ordered mapping of labeled sub-arrays. Each sub-array has rank one less
// than a, so repeated slicing always terminates at the rank <= 2 table case.
func sliceArray(a Array) Mapping {
	n := a.Shape[0]
	count := min(n, maxArraySlices)
	var stride int
	if n > 0 {
		stride = len(a.Data) / n
	}
	m := Mapping{
		Keys:   make([]string, 0, count+1),
		Values: make([]Value, 0, count+1),
	}
	for i := 0; i < count; i++ {
		m.Keys = append(m.Keys, fmt.Sprintf("Slice %d", i))
		m.Values = append(m.Values, Array{
			Shape: a.Shape[1:],
			Data:  a.Data[i*stride : (i+1)*stride],
		})
	}
	if n > maxArraySlices {
		m.Keys = append(m.Keys, "...")
		m.Values = append(m.Values, Text{Value: fmt.Sprintf("And %d more slices...", n-count)})
	}
	return m
}
