package param

// Point is one automation point within a block.
type Point struct {
	Offset int // sample offset in the block
	Value  float64
}

// Queue is the list of points a host delivers for one parameter in a block.
type Queue struct {
	ID     ID
	Points []Point
}

// Changes is every parameter queue of one block.
type Changes []Queue

// Apply stores the last point of each queue and returns how many parameters
// changed. Earlier points are not interpolated; the final value holds for
// the whole block. Empty queues and unknown ids are skipped.
func (vals *Values) Apply(changes Changes) int {
	n := 0
	for _, q := range changes {
		if len(q.Points) == 0 {
			continue
		}
		if vals.Set(q.ID, q.Points[len(q.Points)-1].Value) {
			n++
		}
	}
	return n
}
