// Package calibrate derives the admissible check-length range for a part
// type from sample measurements: signals known to come from the same
// physical object and signals known to come from different ones. The codec
// never runs here; calibration is pure Hamming-distance analysis of
// quantized signatures.
package calibrate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/partmark/partmark/gf"
	"github.com/partmark/partmark/log"
	"github.com/partmark/partmark/quantize"
)

var ErrInfeasible = errors.New("calibrate: no admissible check length separates the groups")

// Result bounds the usable check length. A checkLen of at least MinCheck
// corrects all observed same-object noise; strictly below MaxCheck it
// cannot "correct" a different object into matching. The per-sample
// distances are kept for reporting.
type Result struct {
	MinCheck int
	MaxCheck int

	SameDistances  []int
	OtherDistances []int
}

// Strategy picks one working check length from calibration bounds. The
// choice inside the open interval is policy, not correctness.
type Strategy func(Result) int

// Midpoint is the default strategy: the middle of the admissible range,
// rounded up to even so the correction capacity is exactly checkLen/2.
func Midpoint(r Result) int {
	mid := (r.MinCheck + r.MaxCheck) / 2
	if mid%2 == 1 {
		mid++
	}
	return mid
}

// Distances computes the Hamming distance of every sequence in group to
// the master, fanning the independent comparisons out across goroutines.
// Sequences whose length differs from the master come back as -1.
func Distances(master []gf.Symbol, group [][]gf.Symbol) []int {
	dists := make([]int, len(group))
	var wg sync.WaitGroup
	for i := range group {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := quantize.HammingDistance(master, group[i])
			if err != nil {
				dists[i] = -1
				return
			}
			dists[i] = d
		}(i)
	}
	wg.Wait()
	return dists
}

// Bounds reduces the two distance sets to (minCheck, maxCheck). maxCap is
// the largest feasible check length for the field and data length.
func Bounds(sameDists, otherDists []int, maxCap int) (Result, error) {
	r := Result{
		MinCheck:       0,
		MaxCheck:       maxCap,
		SameDistances:  sameDists,
		OtherDistances: otherDists,
	}
	for _, d := range sameDists {
		if 2*d > r.MinCheck {
			r.MinCheck = 2 * d
		}
	}
	for _, d := range otherDists {
		if 2*d < r.MaxCheck {
			r.MaxCheck = 2 * d
		}
	}
	if r.MinCheck >= r.MaxCheck {
		return r, fmt.Errorf("%w: minCheck=%d maxCheck=%d", ErrInfeasible, r.MinCheck, r.MaxCheck)
	}
	return r, nil
}

// Run quantizes the master and both sample groups and computes the
// calibration bounds. A malformed sample signal is skipped with a warning
// rather than aborting the run; a sample of the wrong length is a hard
// error because it indicates mixed signal shapes, not noise.
func Run(f *gf.Field, master []float64, same, other [][]float64, digits int) (Result, error) {
	masterSeq, err := quantize.Signal(master, digits)
	if err != nil {
		return Result{}, fmt.Errorf("master signal: %w", err)
	}
	maxCap := f.MaxCodewordLen() - len(masterSeq)
	if maxCap <= 0 {
		return Result{}, fmt.Errorf("calibrate: data length %d leaves no room for check symbols in GF(2^%d)",
			len(masterSeq), f.Exponent())
	}

	quantizeGroup := func(name string, group [][]float64) [][]gf.Symbol {
		seqs := make([][]gf.Symbol, 0, len(group))
		for i, sig := range group {
			seq, err := quantize.Signal(sig, digits)
			if err != nil {
				log.Warn(log.CalibMonitoring, "skipping malformed sample",
					"group", name, "index", i, "err", err)
				continue
			}
			seqs = append(seqs, seq)
		}
		return seqs
	}

	sameSeqs := quantizeGroup("same", same)
	otherSeqs := quantizeGroup("other", other)

	sameDists := Distances(masterSeq, sameSeqs)
	otherDists := Distances(masterSeq, otherSeqs)
	for _, d := range append(append([]int{}, sameDists...), otherDists...) {
		if d < 0 {
			return Result{}, fmt.Errorf("calibrate: sample length differs from master (dataLen %d)", len(masterSeq))
		}
	}

	res, err := Bounds(sameDists, otherDists, maxCap)
	if err != nil {
		return res, err
	}
	log.Info(log.CalibMonitoring, "calibration complete",
		"minCheck", res.MinCheck, "maxCheck", res.MaxCheck,
		"sameSamples", len(sameDists), "otherSamples", len(otherDists))
	return res, nil
}
