package tmatrix

// Mul returns a·b.
//
// Errors: ErrNilMatrix, ErrBasisMismatch.
func Mul(a, b *TMatrix) (*TMatrix, error) {
	if a == nil || b == nil {
		return nil, ErrNilMatrix
	}
	if a.basis != b.basis {
		return nil, ErrBasisMismatch
	}

	n := a.Size()
	out := New(a.basis)
	for i := 0; i < n; i++ {
		arow := a.Row(i)
		orow := out.Row(i)
		for k := 0; k < n; k++ {
			aik := arow[k]
			if aik == 0 {
				continue
			}
			brow := b.Row(k)
			for j := 0; j < n; j++ {
				orow[j] += aik * brow[j]
			}
		}
	}

	return out, nil
}

// Add returns a + b.
//
// Errors: ErrNilMatrix, ErrBasisMismatch.
func Add(a, b *TMatrix) (*TMatrix, error) {
	if a == nil || b == nil {
		return nil, ErrNilMatrix
	}
	if a.basis != b.basis {
		return nil, ErrBasisMismatch
	}

	out := a.Clone()
	for i, v := range b.data {
		out.data[i] += v
	}

	return out, nil
}

// IdentityMinus returns I - p.
//
// Errors: ErrNilMatrix.
func IdentityMinus(p *TMatrix) (*TMatrix, error) {
	if p == nil {
		return nil, ErrNilMatrix
	}

	out := New(p.basis)
	n := p.Size()
	for i := 0; i < n; i++ {
		prow := p.Row(i)
		orow := out.Row(i)
		for j := 0; j < n; j++ {
			orow[j] = -prow[j]
		}
		orow[i] += 1
	}

	return out, nil
}
