package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/gerontec/lorachat/pkg/envelope"
)

const (
	DefaultBaudRate = 9600

	// interFrameGap is the quiet period on the line that ends a
	// transparent-mode frame. At 9600 baud a byte takes about 1 ms, so
	// 20 ms of silence means the module has finished delivering.
	interFrameGap = 20 * time.Millisecond
)

// Serial talks to an Ebyte E22/E90 style module in transparent mode:
// every Write is radiated as one frame, and a burst of received bytes
// bounded by a quiet gap is one frame.
type Serial struct {
	port serial.Port
}

func OpenSerial(portName string, baudRate int) (*Serial, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}

	return &Serial{port: port}, nil
}

func (s *Serial) Send(frame []byte) error {
	n, err := s.port.Write(frame)
	if err != nil {
		return err
	}

	if n < len(frame) {
		return fmt.Errorf("serial: short write (%d of %d bytes)", n, len(frame))
	}

	return nil
}

func (s *Serial) Receive(timeout time.Duration) ([]byte, error) {
	if err := s.port.SetReadTimeout(timeout); err != nil {
		return nil, err
	}

	buf := make([]byte, envelope.MaxFrameSize)

	n, err := s.port.Read(buf)
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return nil, &TimeoutError{}
	}

	frame := make([]byte, n)
	copy(frame, buf[:n])

	// The module streams a frame byte by byte. Keep reading until the
	// line goes quiet or the frame reaches its maximum size.
	if err := s.port.SetReadTimeout(interFrameGap); err != nil {
		return frame, nil
	}

	for len(frame) < envelope.MaxFrameSize {
		n, err := s.port.Read(buf[:envelope.MaxFrameSize-len(frame)])
		if err != nil || n == 0 {
			break
		}
		frame = append(frame, buf[:n]...)
	}

	return frame, nil
}

func (s *Serial) Close() error {
	return s.port.Close()
}
