// Package folds partitions a dataset's index range for k-fold cross-validation.
package folds

import (
	"errors"
	"fmt"
)

// ErrInvalidFoldCount is returned when k < 2 or k exceeds the number of records.
var ErrInvalidFoldCount = errors.New("invalid fold count")

// Fold is one train/test split. Both index lists are ascending.
type Fold struct {
	Index        int   `json:"index"`
	TrainIndices []int `json:"trainIndices"`
	TestIndices  []int `json:"testIndices"`
}

// Partition splits [0, n) into k contiguous test blocks. The first n mod k blocks
// receive one extra element. Fold i tests on block i and trains on every other
// index. The result depends only on n and k.
func Partition(n, k int) ([]Fold, error) {
	sizes, err := BlockSizes(n, k)
	if err != nil {
		return nil, err
	}

	out := make([]Fold, 0, k)
	start := 0
	for i, size := range sizes {
		end := start + size
		fold := Fold{
			Index:        i,
			TestIndices:  indexRange(start, end),
			TrainIndices: make([]int, 0, n-size),
		}
		fold.TrainIndices = append(fold.TrainIndices, indexRange(0, start)...)
		fold.TrainIndices = append(fold.TrainIndices, indexRange(end, n)...)
		out = append(out, fold)
		start = end
	}
	return out, nil
}

// BlockSizes returns the test block size of each fold without materializing indices.
func BlockSizes(n, k int) ([]int, error) {
	if k < 2 || k > n {
		return nil, fmt.Errorf("%w: k=%d for n=%d records (need 2 <= k <= n)", ErrInvalidFoldCount, k, n)
	}
	sizes := make([]int, k)
	for i := range sizes {
		sizes[i] = n / k
		if i < n%k {
			sizes[i]++
		}
	}
	return sizes, nil
}

func indexRange(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
