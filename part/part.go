// Package part ties the quantizer and the codec into per-part reference
// records and the authentication verdict built on them. A Reference is
// created once from a designated master measurement and is immutable; any
// number of goroutines may authenticate candidates against it concurrently.
package part

import (
	"errors"
	"fmt"

	"github.com/partmark/partmark/gf"
	"github.com/partmark/partmark/log"
	"github.com/partmark/partmark/quantize"
	"github.com/partmark/partmark/rs"
)

var (
	ErrCapacityExceeded = errors.New("part: data plus check symbols exceed field capacity")
	ErrFieldMismatch    = errors.New("part: field exponent does not match reference")
	ErrLengthMismatch   = errors.New("part: candidate length does not match reference")
)

// Reference is the stored identity of one part type: the quantized master
// signature, its derived check symbols, and the code parameters that every
// later authentication must reuse.
type Reference struct {
	Name     string      `json:"name"`
	M        int         `json:"m"`
	CheckLen int         `json:"check_len"`
	Digits   int         `json:"digits"`
	Data     []gf.Symbol `json:"data"`
	Check    []gf.Symbol `json:"check"`
}

// DataLen returns the required quantized length of any candidate.
func (r *Reference) DataLen() int { return len(r.Data) }

// BuildReference quantizes the master signal and derives its check
// symbols. Called once per part type; the designated master measurement
// defines the data length all candidates must match.
func BuildReference(f *gf.Field, name string, master []float64, checkLen, digits int) (*Reference, error) {
	data, err := quantize.Signal(master, digits)
	if err != nil {
		return nil, fmt.Errorf("master signal: %w", err)
	}
	if len(data)+checkLen > f.MaxCodewordLen() {
		return nil, fmt.Errorf("%w: data=%d check=%d max=%d",
			ErrCapacityExceeded, len(data), checkLen, f.MaxCodewordLen())
	}

	codeword, err := rs.Encode(f, data, checkLen)
	if err != nil {
		return nil, fmt.Errorf("encode master: %w", err)
	}

	ref := &Reference{
		Name:     name,
		M:        f.Exponent(),
		CheckLen: checkLen,
		Digits:   digits,
		Data:     codeword[:len(data)],
		Check:    codeword[len(data):],
	}
	log.Info(log.AuthMonitoring, "reference built",
		"part", name, "dataLen", len(data), "checkLen", checkLen, "m", f.Exponent())
	return ref, nil
}

// Verdict is the outcome of one authentication. Reason carries the decode
// or precondition failure behind a negative verdict, for diagnostics only.
type Verdict struct {
	OK              bool
	ErrorsCorrected int
	Reason          error
}

// Authenticate quantizes the candidate signal, appends the reference check
// symbols and decodes. The candidate is an instance of the part iff the
// decoder lands back on the master data. A rejection is the normal outcome
// for a different object, so failures surface in the verdict, never as an
// error return.
func Authenticate(f *gf.Field, ref *Reference, candidate []float64) Verdict {
	if f.Exponent() != ref.M {
		return Verdict{Reason: fmt.Errorf("%w: field m=%d reference m=%d",
			ErrFieldMismatch, f.Exponent(), ref.M)}
	}

	data, err := quantize.Signal(candidate, ref.Digits)
	if err != nil {
		return Verdict{Reason: err}
	}
	if len(data) != ref.DataLen() {
		return Verdict{Reason: fmt.Errorf("%w: candidate %d, reference %d",
			ErrLengthMismatch, len(data), ref.DataLen())}
	}

	received := make([]gf.Symbol, 0, len(data)+len(ref.Check))
	received = append(received, data...)
	received = append(received, ref.Check...)

	decoded, corrected, err := rs.Decode(f, received, ref.CheckLen)
	if err != nil {
		// Expected rejection path; debug only.
		log.Debug(log.AuthMonitoring, "candidate rejected", "part", ref.Name, "err", err)
		return Verdict{Reason: err}
	}

	// The decoder may legitimately repair symbols in the check portion, but
	// the data portion must equal the master exactly.
	for i := range decoded {
		if decoded[i] != ref.Data[i] {
			log.Debug(log.AuthMonitoring, "candidate decoded to foreign data", "part", ref.Name)
			return Verdict{Reason: rs.ErrUnconverged}
		}
	}

	log.Debug(log.AuthMonitoring, "candidate accepted",
		"part", ref.Name, "corrected", corrected)
	return Verdict{OK: true, ErrorsCorrected: corrected}
}
