package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/quadra-dev/quadra/internal/mc"
)

// Fingerprint produces a canonical digest of a result's inputs and
// outcome for replay verification.
//
// The serialization must be deterministic across processes and
// architectures, so:
//   - the expression is NFC normalized (equal-looking strings digest
//     equally)
//   - floats are encoded from their IEEE-754 bits, never via decimal
//     formatting, so the digest is bit-exact
//
// Two results fingerprint equally iff every field is bit-identical.
func Fingerprint(res *mc.Result) string {
	var b strings.Builder
	b.WriteString("quadra/run/v1\n")
	b.WriteString(norm.NFC.String(res.Expr))
	b.WriteByte('\n')
	writeFloat(&b, res.A)
	writeFloat(&b, res.B)
	fmt.Fprintf(&b, "%d\n%d\n", res.Samples, res.Seed)
	writeFloat(&b, res.Estimate)
	writeFloat(&b, res.Variance)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeFloat(b *strings.Builder, f float64) {
	fmt.Fprintf(b, "%016x\n", math.Float64bits(f))
}
