package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	packetSize = 64
	channelHi  = 0x01
	channelLo  = 0x01
	tagAPDU    = 0x05
	headerSize = 5
)

var errReplyInvalidHeader = errors.New("ledger: invalid reply header")

// StatusError is a non success status word returned by the device.
type StatusError struct {
	Code uint16
}

func (e *StatusError) Error() string {
	switch e.Code {
	case 0x6985:
		return "ledger: request rejected on the device"
	case 0x6e00, 0x6d00:
		return "ledger: Algorand app is not open on the device"
	case 0x6a86, 0x6a87:
		return "ledger: the device refused the request parameters"
	}
	return fmt.Sprintf("ledger: device returned status 0x%04x", e.Code)
}

// frame splits data, prefixed by its 2 byte length, into 64 byte HID
// packets each carrying the channel, tag and sequence index.
func frame(data []byte) [][]byte {
	stream := make([]byte, 2, 2+len(data))
	binary.BigEndian.PutUint16(stream, uint16(len(data)))
	stream = append(stream, data...)

	packets := [][]byte{}
	space := packetSize - headerSize
	for seq := 0; len(stream) > 0; seq++ {
		packet := make([]byte, headerSize, packetSize)
		packet[0], packet[1], packet[2] = channelHi, channelLo, tagAPDU
		binary.BigEndian.PutUint16(packet[3:], uint16(seq))
		n := len(stream)
		if n > space {
			n = space
		}
		packet = append(packet, stream[:n]...)
		stream = stream[n:]
		// devices expect full size reports
		packet = packet[:packetSize]
		packets = append(packets, packet)
	}
	return packets
}

// exchange sends one APDU and returns the reply payload without its status
// word.
func exchange(device io.ReadWriter, cla, ins, p1, p2 byte, data []byte) ([]byte, error) {
	if len(data) > 255 {
		return nil, fmt.Errorf("ledger: apdu payload of %d bytes is too large", len(data))
	}
	apdu := append([]byte{cla, ins, p1, p2, byte(len(data))}, data...)
	for _, packet := range frame(apdu) {
		if _, err := device.Write(packet); err != nil {
			return nil, err
		}
	}

	var reply []byte
	total := -1
	packet := make([]byte, packetSize)
	for seq := 0; total < 0 || len(reply) < total; seq++ {
		if _, err := io.ReadFull(device, packet); err != nil {
			return nil, err
		}
		if packet[0] != channelHi || packet[1] != channelLo || packet[2] != tagAPDU {
			return nil, errReplyInvalidHeader
		}
		if int(binary.BigEndian.Uint16(packet[3:5])) != seq {
			return nil, fmt.Errorf("ledger: reply packet %d is out of order", seq)
		}
		payload := packet[headerSize:]
		if seq == 0 {
			total = int(binary.BigEndian.Uint16(payload[:2]))
			payload = payload[2:]
		}
		if left := total - len(reply); left < len(payload) {
			payload = payload[:left]
		}
		reply = append(reply, payload...)
	}
	if len(reply) < 2 {
		return nil, fmt.Errorf("ledger: reply of %d bytes has no status word", len(reply))
	}
	status := binary.BigEndian.Uint16(reply[len(reply)-2:])
	if status != 0x9000 {
		return nil, &StatusError{status}
	}
	return reply[:len(reply)-2], nil
}
