package plonkish

import (
	"github.com/fxamacker/cbor/v2"
)

// serialized form of a shape; coefficients travel as canonical big-endian
// decimal strings so the encoding is independent of the in-memory Montgomery
// representation.
type shapeData struct {
	Field       string     `cbor:"1,keyasint"`
	NbAdvice    int        `cbor:"2,keyasint"`
	NbSelectors int        `cbor:"3,keyasint"`
	Instance    []int      `cbor:"4,keyasint"`
	Gates       []gateData `cbor:"5,keyasint"`
}

type gateData struct {
	Name     string       `cbor:"1,keyasint"`
	Selector int          `cbor:"2,keyasint"`
	Queries  [][2]int     `cbor:"3,keyasint"`
	Polys    [][]termData `cbor:"4,keyasint"`
}

type termData struct {
	Q0    int    `cbor:"1,keyasint"`
	Q1    int    `cbor:"2,keyasint"`
	Coeff string `cbor:"3,keyasint"`
}

// SerializeShape encodes the static shape of the system as deterministic
// CBOR. Two systems configured from identical inputs serialize to identical
// bytes, which is what key-generation tooling keys on.
func SerializeShape(cs *ConstraintSystem) ([]byte, error) {
	fd := cs.Field()
	data := shapeData{
		Field:       fd.Field().String(),
		NbAdvice:    cs.NbAdviceColumns(),
		NbSelectors: cs.NbSelectors(),
		Instance:    cs.InstanceWidths(),
	}
	for _, gate := range cs.Gates() {
		gd := gateData{
			Name:     gate.Name,
			Selector: gate.Selector.Index,
		}
		for _, q := range gate.Queries {
			gd.Queries = append(gd.Queries, [2]int{q.Column.Index, int(q.At)})
		}
		for _, poly := range gate.Polys {
			terms := make([]termData, 0, len(poly))
			for _, t := range poly {
				terms = append(terms, termData{
					Q0:    t.QID0,
					Q1:    t.QID1,
					Coeff: fd.ToBigInt(t.Coeff).String(),
				})
			}
			gd.Polys = append(gd.Polys, terms)
		}
		data.Gates = append(data.Gates, gd)
	}

	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(data)
}
