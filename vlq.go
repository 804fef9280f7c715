package smf

// EncodeVLQ returns the minimal variable-length-quantity encoding of n.
// n must fit in 28 bits (0..0x0fffffff); larger values return ErrOverflow.
func EncodeVLQ(n uint32) ([]byte, error) {
	w := newByteWriter()
	if e := w.writeVLQ(n); e != nil {
		return nil, e
	}
	return w.Bytes(), nil
}

// DecodeVLQ decodes a variable-length quantity from the start of buf,
// returning the value and the number of bytes consumed.
func DecodeVLQ(buf []byte) (value uint32, consumed int, err error) {
	r := newByteReader(buf)
	value, err = r.readVLQ()
	if err != nil {
		return 0, 0, err
	}
	return value, r.pos, nil
}
