// internal/accuracy/confusion.go
package accuracy

// ConfusionMatrix counts ground-truth ratings (rows) against predicted ratings
// (columns). Index 0, 1 and 2 stand for ratings -1, 0 and 1.
type ConfusionMatrix [3][3]int

// Add counts one matched prediction. Ratings outside -1..1 are ignored.
func (m *ConfusionMatrix) Add(truth, predicted int) {
	ti, pi := truth+1, predicted+1
	if ti < 0 || ti > 2 || pi < 0 || pi > 2 {
		return
	}
	m[ti][pi]++
}

// Count returns the number of predictions of predicted for records rated truth.
func (m ConfusionMatrix) Count(truth, predicted int) int {
	ti, pi := truth+1, predicted+1
	if ti < 0 || ti > 2 || pi < 0 || pi > 2 {
		return 0
	}
	return m[ti][pi]
}
