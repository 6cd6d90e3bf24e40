package device

import (
	"encoding/binary"
	"io"

	"codeberg.org/nfehr/enviroctl/internal/errors"
	"github.com/jacobsa/go-serial/serial"
)

// PMS5003 frame layout: two start bytes, a big-endian frame length, 13
// big-endian data words, and a 16-bit checksum over everything before it.
const (
	pmsStartByte1 = 0x42
	pmsStartByte2 = 0x4D

	pmsFrameLen = 32 // full frame including start bytes
	pmsDataLen  = 28 // length word value: 13 data words + checksum
)

// decodePMSFrame parses a complete 32-byte PMS5003 frame. The returned
// reading uses the "under atmospheric environment" concentrations
// (words 3..5), matching what the board reports.
func decodePMSFrame(frame []byte) (ParticleReading, error) {
	errFactory := errors.New()

	if len(frame) != pmsFrameLen {
		return ParticleReading{}, errFactory.WithData(errors.ErrBadFrame, struct {
			Field string
			Value int
		}{
			Field: "frame_length",
			Value: len(frame),
		})
	}

	if frame[0] != pmsStartByte1 || frame[1] != pmsStartByte2 {
		return ParticleReading{}, errFactory.WithMessage(errors.ErrBadFrame, "missing start bytes")
	}

	if binary.BigEndian.Uint16(frame[2:4]) != pmsDataLen {
		return ParticleReading{}, errFactory.WithData(errors.ErrBadFrame, struct {
			Field string
			Value uint16
		}{
			Field: "data_length",
			Value: binary.BigEndian.Uint16(frame[2:4]),
		})
	}

	var sum uint16
	for _, b := range frame[:pmsFrameLen-2] {
		sum += uint16(b)
	}
	if sum != binary.BigEndian.Uint16(frame[pmsFrameLen-2:]) {
		return ParticleReading{}, errFactory.WithMessage(errors.ErrBadFrame, "checksum mismatch")
	}

	word := func(i int) float64 {
		return float64(binary.BigEndian.Uint16(frame[4+2*i:]))
	}

	return ParticleReading{
		PM1:  word(3),
		PM25: word(4),
		PM10: word(5),
	}, nil
}

// pmsReader reads PMS5003 frames off a byte stream, resynchronizing on
// the start bytes when the stream is mid-frame.
type pmsReader struct {
	r io.Reader
}

func (p *pmsReader) Read() (ParticleReading, error) {
	errFactory := errors.New()

	frame := make([]byte, pmsFrameLen)

	// Sync to the frame header one byte at a time.
	for {
		if _, err := io.ReadFull(p.r, frame[:1]); err != nil {
			return ParticleReading{}, errFactory.Wrap(errors.ErrSensorRead, err)
		}
		if frame[0] != pmsStartByte1 {
			continue
		}
		if _, err := io.ReadFull(p.r, frame[1:2]); err != nil {
			return ParticleReading{}, errFactory.Wrap(errors.ErrSensorRead, err)
		}
		if frame[1] == pmsStartByte2 {
			break
		}
	}

	if _, err := io.ReadFull(p.r, frame[2:]); err != nil {
		return ParticleReading{}, errFactory.Wrap(errors.ErrSensorRead, err)
	}

	return decodePMSFrame(frame)
}

// openPMS5003 opens the particulate sensor's serial port. The board wires
// the sensor at 9600 8N1 on the Pi's primary UART.
func openPMS5003(portName string) (io.ReadWriteCloser, error) {
	port, err := serial.Open(serial.OpenOptions{
		PortName:        portName,
		BaudRate:        9600,
		DataBits:        8,
		StopBits:        1,
		ParityMode:      serial.PARITY_NONE,
		MinimumReadSize: 1,
	})
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrPortUnopened, err)
	}

	return port, nil
}
