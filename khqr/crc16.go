package khqr

// crc16 implements CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF), the
// checksum EMVCo QR payloads carry in tag 63.
func crc16(data string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(data); i++ {
		crc ^= uint16(data[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
