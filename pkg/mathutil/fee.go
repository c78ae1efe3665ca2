package mathutil

// PerMille is the fee scale used when percentages are expressed in tenths of
// a percent (ie. 25 = 2.5%).
var PerMille = uint32(1000)

// ShareOf returns amount * part / scale truncated toward zero. The product
// is computed on arbitrary precision so that it never overflows.
func ShareOf(amount uint64, part, scale uint32) uint64 {
	if scale == 0 || part == 0 || amount == 0 {
		return 0
	}
	share := ToDecimal(amount).
		Mul(ToDecimal(uint64(part))).
		Div(ToDecimal(uint64(scale)))
	return ToUint64(share)
}
