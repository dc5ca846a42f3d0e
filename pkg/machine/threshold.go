package machine

import "strconv"

// sentinel is the stored representation of an absent cutoff. It is what an
// erased EEPROM slot reads back, so uncalibrated machines come up in
// operator-terminated dispensing instead of comparing against garbage.
const sentinel int32 = -1

// Threshold is the calibrated scale reading at which dispensing stops. The
// zero value is absent: no automatic cutoff, the operator ends the fill.
type Threshold struct {
	reading int32
	ok      bool
}

// Cutoff returns a calibrated threshold.
func Cutoff(reading int32) Threshold {
	return Threshold{reading: reading, ok: true}
}

// NoCutoff returns an absent threshold.
func NoCutoff() Threshold {
	return Threshold{}
}

// Reading returns the cutoff reading and whether one is set.
func (t Threshold) Reading() (int32, bool) {
	return t.reading, t.ok
}

// Encode returns the stored form: the reading itself, or -1 when absent.
// A literal reading of -1 is indistinguishable from absent, matching the
// store format of the original machines.
func (t Threshold) Encode() int32 {
	if !t.ok {
		return sentinel
	}
	return t.reading
}

// DecodeThreshold is the inverse of Encode.
func DecodeThreshold(v int32) Threshold {
	if v == sentinel {
		return NoCutoff()
	}
	return Cutoff(v)
}

func (t Threshold) String() string {
	if !t.ok {
		return "manual"
	}
	return strconv.FormatInt(int64(t.reading), 10)
}
