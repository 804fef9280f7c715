package smf

import "testing"

func TestVLQRoundTrip(t *testing.T) {
	values := []uint32{
		0x00000000,
		0x00000040,
		0x0000007F,
		0x00000080,
		0x00002000,
		0x00003FFF,
		0x00004000,
		0x00100000,
		0x001FFFFF,
		0x00200000,
		0x08000000,
		0x0FFFFFFF,
	}
	expected := [][]byte{
		{0x00},
		{0x40},
		{0x7F},
		{0x81, 0x00},
		{0xC0, 0x00},
		{0xFF, 0x7F},
		{0x81, 0x80, 0x00},
		{0xC0, 0x80, 0x00},
		{0xFF, 0xFF, 0x7F},
		{0x81, 0x80, 0x80, 0x00},
		{0xC0, 0x80, 0x80, 0x00},
		{0xFF, 0xFF, 0xFF, 0x7F},
	}

	for i, v := range values {
		encoded, e := EncodeVLQ(v)
		if e != nil {
			t.Logf("Failed encoding 0x%08x: %s\n", v, e)
			t.FailNow()
		}
		if len(encoded) != len(expected[i]) {
			t.Logf("Wrong length for 0x%08x: expected %d bytes, got %d\n", v, len(expected[i]), len(encoded))
			t.FailNow()
		}
		for j := range encoded {
			if encoded[j] != expected[i][j] {
				t.Logf("Byte mismatch encoding 0x%08x at offset %d: expected 0x%02x, got 0x%02x\n",
					v, j, expected[i][j], encoded[j])
				t.FailNow()
			}
		}

		decoded, consumed, e := DecodeVLQ(encoded)
		if e != nil {
			t.Logf("Failed decoding bytes for 0x%08x: %s\n", v, e)
			t.FailNow()
		}
		if consumed != len(encoded) {
			t.Logf("Decoded %d bytes but encoded length was %d for 0x%08x\n", consumed, len(encoded), v)
			t.FailNow()
		}
		if decoded != v {
			t.Logf("Decoded wrong value: expected 0x%08x, got 0x%08x\n", v, decoded)
			t.FailNow()
		}
	}
}

func TestVLQOverflow(t *testing.T) {
	_, e := EncodeVLQ(0x10000000)
	if e == nil {
		t.Logf("Didn't get expected error encoding a value over 28 bits.\n")
		t.FailNow()
	}
	t.Logf("Got expected error encoding an out-of-range VLQ: %s\n", e)

	_, _, e = DecodeVLQ([]byte{0xff, 0xff, 0xff, 0xff})
	if e == nil {
		t.Logf("Didn't get expected error decoding a 5th continuation byte.\n")
		t.FailNow()
	}
	t.Logf("Got expected error decoding an overlong VLQ: %s\n", e)
}

func TestVLQTruncated(t *testing.T) {
	_, _, e := DecodeVLQ([]byte{0x81})
	if e == nil {
		t.Logf("Didn't get expected error decoding a truncated VLQ.\n")
		t.FailNow()
	}
	t.Logf("Got expected error decoding a truncated VLQ: %s\n", e)
}
