package smf

// isStatusByte reports whether b has its top bit set.
func isStatusByte(b byte) bool {
	return b&0x80 != 0
}

// isRealtimeByte reports whether b is a system realtime status (0xF8..0xFE).
// Realtime bytes may appear anywhere, including spliced into another
// message's data bytes.
func isRealtimeByte(b byte) bool {
	return b >= 0xF8 && b <= 0xFE
}

func isSystemCommonStatus(b byte) bool {
	return b >= 0xF0 && b <= 0xF7
}

// channelVoiceDataLength returns the number of data bytes (excluding the
// status byte itself) expected after a channel voice status.
func channelVoiceDataLength(status byte) (int, bool) {
	switch status & 0xF0 {
	case 0x80, 0x90, 0xA0, 0xB0, 0xE0:
		return 2, true
	case 0xC0, 0xD0:
		return 1, true
	}
	return 0, false
}

// systemCommonDataLength returns the number of data bytes expected after a
// fixed-length system common status (everything but 0xF0 SysEx, which is
// variable-length and handled separately by the decoder).
func systemCommonDataLength(status byte) (int, bool) {
	switch status {
	case 0xF1, 0xF3:
		return 1, true
	case 0xF2:
		return 2, true
	case 0xF6:
		return 0, true
	case 0xF7:
		// A standalone 0xF7 (not terminating a SysEx) is a recoverable
		// warning condition; treated as a length-1 message.
		return 0, true
	}
	return 0, false
}
