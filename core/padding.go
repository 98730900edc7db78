package core

// paddingSize returns how many slack bytes to leave after a new record's
// value, given the file size before the append and the alignment policy.
//
//	alignment == 0  no padding
//	alignment  > 0  pad the record end up to the next multiple of alignment
//	alignment  < 0  reserve a share of the value, 2 / 2^|alignment|, rounded to
//	                whole or half blocks once values reach block size
func paddingSize(alignment int, fileSize, keySize, valueSize int64) int64 {
	if alignment == 0 {
		return 0
	}

	if alignment > 0 {
		a := int64(alignment)
		return a - (fileSize+PaddingHeaderWidth+keySize+valueSize)%a
	}

	// The shift count wraps at 32 bits, as the on-disk format's reference
	// arithmetic does.
	shift := uint(-alignment) & 31
	pad := int64(float64(valueSize) * (2.0 / float64(int32(1)<<shift)))

	const block = int64(DefaultBlockSize)
	if valueSize+pad < block {
		if pad >= block*4 {
			return pad
		}
		return PaddingHeaderWidth
	}

	if valueSize <= block {
		pad = 0
	}

	unit := block
	if fileSize%block != 0 {
		unit = block / 2
	}
	return pad/unit*unit + unit - (fileSize+PaddingHeaderWidth+keySize+valueSize)%unit
}
