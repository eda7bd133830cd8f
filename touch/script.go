package touch

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Reading is one contact in native sensor units.
type Reading struct {
	Location, Size float64
}

// Script is a Sensor that replays recorded readings, one frame per
// ReadLocations, holding the last frame once the script is exhausted.
type Script struct {
	frames [][]Reading
	i      int
	cur    []Reading
	fail   bool
}

func NewScript(frames ...[]Reading) *Script {
	return &Script{frames: frames}
}

// LoadScript reads a CSV file in which each record is one frame of
// location,size pairs in native units. A record holding only "-" is a frame
// with no contacts; lines starting with # are comments.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "touch: open script")
	}
	defer f.Close()
	s, err := ReadScript(f)
	return s, errors.Wrapf(err, "touch: script %s", path)
}

func ReadScript(r io.Reader) (*Script, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	var frames [][]Reading
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "-" {
			frames = append(frames, nil)
			continue
		}
		if len(rec)%2 != 0 {
			return nil, errors.Errorf("line %d: want location,size pairs, got %d fields", line, len(rec))
		}
		var fr []Reading
		for i := 0; i < len(rec); i += 2 {
			loc, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			size, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			fr = append(fr, Reading{loc, size})
		}
		frames = append(frames, fr)
	}
	return NewScript(frames...), nil
}

func (s *Script) Setup(SensorConfig) error { return nil }

// FailNext makes the next ReadLocations fail without advancing.
func (s *Script) FailNext() { s.fail = true }

func (s *Script) ReadLocations() error {
	if s.fail {
		s.fail = false
		return errors.New("touch: scripted read failure")
	}
	if s.i < len(s.frames) {
		s.cur = s.frames[s.i]
		s.i++
	}
	return nil
}

func (s *Script) NumberOfTouches() int        { return len(s.cur) }
func (s *Script) TouchLocation(i int) float64 { return s.cur[i].Location }
func (s *Script) TouchSize(i int) float64     { return s.cur[i].Size }
