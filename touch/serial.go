package touch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

// Serial is a Sensor behind a microcontroller that owns the I2C bus and
// relays readings over a serial line. The bridge speaks a line protocol:
//
//	-> setup <bus> <address> <mode> <threshold> <prescaler>
//	<- ok
//	-> read
//	<- <count> <location0> <size0> <location1> <size1> ...
//
// Anything other than "ok" in reply to setup is the bridge's error message.
type Serial struct {
	name    string
	baud    int
	timeout time.Duration

	port io.ReadWriteCloser
	r    *bufio.Reader

	n         int
	locations [MaxTouches]float64
	sizes     [MaxTouches]float64
}

// NewSerial returns a sensor that opens the named port at Setup. A read that
// takes longer than timeout fails; zero waits forever.
func NewSerial(name string, baud int, timeout time.Duration) *Serial {
	return &Serial{name: name, baud: baud, timeout: timeout}
}

func newSerialPort(port io.ReadWriteCloser) *Serial {
	return &Serial{port: port, r: bufio.NewReader(port)}
}

func (s *Serial) Setup(c SensorConfig) error {
	if s.port == nil {
		p, err := serial.OpenPort(&serial.Config{Name: s.name, Baud: s.baud, ReadTimeout: s.timeout})
		if err != nil {
			return errors.Wrapf(ErrNoDevice, "%s: %v", s.name, err)
		}
		s.port = p
		s.r = bufio.NewReader(p)
	}
	reply, err := s.request(fmt.Sprintf("setup %d %#x %s %d %d", c.Bus, c.Address, c.Mode, c.Threshold, c.Prescaler))
	if err != nil {
		return errors.Wrapf(ErrNoDevice, "%s: no reply to setup: %v", s.name, err)
	}
	if reply != "ok" {
		return errors.Errorf("touch: bridge refused setup: %s", reply)
	}
	return nil
}

func (s *Serial) request(cmd string) (string, error) {
	if _, err := io.WriteString(s.port, cmd+"\n"); err != nil {
		return "", errors.Wrap(err, "touch: write")
	}
	line, err := s.r.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "touch: read")
	}
	return strings.TrimSpace(line), nil
}

func (s *Serial) ReadLocations() error {
	line, err := s.request("read")
	if err != nil {
		return err
	}
	f := strings.Fields(line)
	if len(f) == 0 {
		return errors.New("touch: empty reading")
	}
	n, err := strconv.Atoi(f[0])
	if err != nil || n < 0 {
		return errors.Errorf("touch: bad touch count %q", f[0])
	}
	if len(f) != 1+2*n {
		return errors.Errorf("touch: %d touches but %d values", n, len(f)-1)
	}
	if n > MaxTouches {
		n = MaxTouches
	}
	var loc, size [MaxTouches]float64
	for i := 0; i < n; i++ {
		if loc[i], err = strconv.ParseFloat(f[1+2*i], 64); err != nil {
			return errors.Wrap(err, "touch: location")
		}
		if size[i], err = strconv.ParseFloat(f[2+2*i], 64); err != nil {
			return errors.Wrap(err, "touch: size")
		}
	}
	s.n, s.locations, s.sizes = n, loc, size
	return nil
}

func (s *Serial) NumberOfTouches() int        { return s.n }
func (s *Serial) TouchLocation(i int) float64 { return s.locations[i] }
func (s *Serial) TouchSize(i int) float64     { return s.sizes[i] }

func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	return s.port.Close()
}
