package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Sample
		wantErr bool
	}{
		{
			name: "idle station",
			line: "1700000000000000,-180123,1,1",
			want: Sample{
				Timestamp: time.Unix(0, 1700000000000000*1000),
				Reading:   -180123,
				Dispense:  false,
				Mode:      false,
			},
		},
		{
			name: "dispense held",
			line: "1700000000010000,-219834,0,1",
			want: Sample{
				Timestamp: time.Unix(0, 1700000000010000*1000),
				Reading:   -219834,
				Dispense:  true,
				Mode:      false,
			},
		},
		{
			name: "both buttons held",
			line: "5,-1,0,0",
			want: Sample{
				Timestamp: time.Unix(0, 5000),
				Reading:   -1,
				Dispense:  true,
				Mode:      true,
			},
		},
		{name: "too few fields", line: "123,-456,0", wantErr: true},
		{name: "too many fields", line: "123,-456,0,1,9", wantErr: true},
		{name: "garbage timestamp", line: "abc,-456,0,1", wantErr: true},
		{name: "garbage reading", line: "123,x,0,1", wantErr: true},
		{name: "level out of range", line: "123,-456,2,1", wantErr: true},
		{name: "empty", line: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHAL_ButtonsTrackLatestSample(t *testing.T) {
	r := New("/dev/null")
	h := r.HAL()

	assert.False(t, h.Dispense.Pressed())
	assert.False(t, h.Mode.Pressed())

	r.mu.Lock()
	r.last = Sample{Dispense: true, Mode: false}
	r.mu.Unlock()

	assert.True(t, h.Dispense.Pressed())
	assert.False(t, h.Mode.Pressed())
}

func TestRaw_ConsumesSampleStream(t *testing.T) {
	r := New("/dev/null", WithBufferSize(4))
	r.samples <- Sample{Reading: -181000}
	r.samples <- Sample{Reading: -181500}

	assert.Equal(t, int64(-181000), r.Raw())
	assert.Equal(t, int64(-181500), r.Raw())
}

func TestAveraged(t *testing.T) {
	r := New("/dev/null", WithBufferSize(4))
	for _, v := range []int64{-100, -200, -300} {
		r.samples <- Sample{Reading: v}
	}

	assert.Equal(t, int64(-200), r.Averaged(3))
}

func TestDisplay_FramebufferTracksPrints(t *testing.T) {
	// No connection: commands are dropped but the shadow framebuffer still
	// tracks what the panel would show.
	r := New("/dev/null")
	d := r.display

	d.SetCursor(0, 0)
	d.Print("Volume: 200  mL")
	d.SetCursor(0, 1)
	d.Print("Press to change")

	assert.Equal(t, "Volume: 200  mL", d.Row(0))
	assert.Equal(t, "Press to change", d.Row(1))

	d.Clear()
	assert.Equal(t, "", d.Row(0))
	assert.Equal(t, "", d.Row(1))
}

func TestDisplay_ClipsAtRowEdge(t *testing.T) {
	r := New("/dev/null")
	d := r.display

	d.SetCursor(10, 0)
	d.Print("0123456789")

	assert.Equal(t, "          012345", d.Row(0))
}

func TestOptions(t *testing.T) {
	r := New("/dev/ttyACM0", WithBaudRate(57600), WithBufferSize(16))
	assert.Equal(t, 57600, r.baudRate)
	assert.Equal(t, 16, cap(r.samples))

	// Invalid values keep the defaults.
	r = New("/dev/ttyACM0", WithBaudRate(0), WithBufferSize(-1))
	assert.Equal(t, DefaultBaudRate, r.baudRate)
	assert.Equal(t, DefaultBufferSize, cap(r.samples))
}
