// Package source defines the outbound data port. Every backend delivers the
// raw worksheet grids plus a content fingerprint; parsing belongs to the
// payroll package, so adapters stay thin.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	"masasalarial/internal/payroll"
)

// ErrSheetNotFound reports a workbook without the mandatory detail sheet.
var ErrSheetNotFound = errors.New("sheet not found")

// Tables is one source read: the mandatory detail grid, the optional annual
// control grid (nil when the source has none), and a fingerprint addressing
// the content so an unchanged source can skip re-normalization.
type Tables struct {
	Detail      payroll.Table
	Annual      *payroll.Table
	Fingerprint string
}

// Reader is the port every data backend implements.
type Reader interface {
	// Tables fetches the current grids. Implementations honor ctx
	// cancellation on any network or file access.
	Tables(ctx context.Context) (Tables, error)
}

// Fingerprint content-addresses a raw payload.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FingerprintTables content-addresses parsed grids, for backends that never
// see a raw payload. Cell, row and table boundaries are marked so shifted
// content cannot collide.
func FingerprintTables(tables ...*payroll.Table) string {
	h := sha256.New()
	for _, t := range tables {
		if t == nil {
			continue
		}
		io.WriteString(h, t.Name)
		h.Write([]byte{0})
		for _, row := range t.Cells {
			for _, cell := range row {
				io.WriteString(h, cell)
				h.Write([]byte{1})
			}
			h.Write([]byte{2})
		}
		h.Write([]byte{3})
	}
	return hex.EncodeToString(h.Sum(nil))
}
