//go:build linux || darwin

package term

import (
	"testing"

	ptylib "github.com/creack/pty"
	"golang.org/x/sys/unix"
)

func TestDefaultTermiosFlags(t *testing.T) {
	tio := DefaultTermios()

	tests := []struct {
		name string
		word uint64
		mask uint64
	}{
		{"ICRNL", uint64(tio.Iflag), unix.ICRNL},
		{"IXON", uint64(tio.Iflag), unix.IXON},
		{"IXANY", uint64(tio.Iflag), unix.IXANY},
		{"IMAXBEL", uint64(tio.Iflag), unix.IMAXBEL},
		{"BRKINT", uint64(tio.Iflag), unix.BRKINT},
		{"IUTF8", uint64(tio.Iflag), unix.IUTF8},
		{"OPOST", uint64(tio.Oflag), unix.OPOST},
		{"ONLCR", uint64(tio.Oflag), unix.ONLCR},
		{"CREAD", uint64(tio.Cflag), unix.CREAD},
		{"CS8", uint64(tio.Cflag), unix.CS8},
		{"HUPCL", uint64(tio.Cflag), unix.HUPCL},
		{"ICANON", uint64(tio.Lflag), unix.ICANON},
		{"ISIG", uint64(tio.Lflag), unix.ISIG},
		{"IEXTEN", uint64(tio.Lflag), unix.IEXTEN},
		{"ECHO", uint64(tio.Lflag), unix.ECHO},
		{"ECHOE", uint64(tio.Lflag), unix.ECHOE},
		{"ECHOK", uint64(tio.Lflag), unix.ECHOK},
		{"ECHOKE", uint64(tio.Lflag), unix.ECHOKE},
		{"ECHOCTL", uint64(tio.Lflag), unix.ECHOCTL},
	}
	for _, tt := range tests {
		if tt.word&tt.mask == 0 {
			t.Errorf("%s is not set", tt.name)
		}
	}
}

func TestDefaultTermiosControlChars(t *testing.T) {
	tio := DefaultTermios()

	tests := []struct {
		name string
		idx  int
		want uint8
	}{
		{"VEOF", unix.VEOF, 4},
		{"VEOL", unix.VEOL, ccDisable},
		{"VEOL2", unix.VEOL2, ccDisable},
		{"VERASE", unix.VERASE, 0x7f},
		{"VWERASE", unix.VWERASE, 23},
		{"VKILL", unix.VKILL, 21},
		{"VREPRINT", unix.VREPRINT, 18},
		{"VINTR", unix.VINTR, 3},
		{"VQUIT", unix.VQUIT, 0x1c},
		{"VSUSP", unix.VSUSP, 26},
		{"VSTART", unix.VSTART, 17},
		{"VSTOP", unix.VSTOP, 19},
		{"VLNEXT", unix.VLNEXT, 22},
		{"VDISCARD", unix.VDISCARD, 15},
		{"VMIN", unix.VMIN, 1},
		{"VTIME", unix.VTIME, 0},
	}
	for _, tt := range tests {
		if got := tio.Cc[tt.idx]; got != tt.want {
			t.Errorf("Cc[%s] = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestDefaultTermiosBaudRate(t *testing.T) {
	tio := DefaultTermios()
	if got := uint64(tio.Ispeed); got != uint64(unix.B38400) {
		t.Errorf("input speed = %d, want B38400 (%d)", got, uint64(unix.B38400))
	}
	if got := uint64(tio.Ospeed); got != uint64(unix.B38400) {
		t.Errorf("output speed = %d, want B38400 (%d)", got, uint64(unix.B38400))
	}
}

func TestApplyTermiosRoundTrip(t *testing.T) {
	ptmx, tty, err := ptylib.Open()
	if err != nil {
		t.Fatalf("open pty: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	tio := DefaultTermios()
	if err := ApplyTermios(int(tty.Fd()), &tio); err != nil {
		t.Fatalf("ApplyTermios: %v", err)
	}

	got, err := GetTermios(int(tty.Fd()))
	if err != nil {
		t.Fatalf("GetTermios: %v", err)
	}
	if got.Lflag&unix.ICANON == 0 {
		t.Error("ICANON not set after apply")
	}
	if got.Oflag&unix.ONLCR == 0 {
		t.Error("ONLCR not set after apply")
	}
	if got.Cc[unix.VINTR] != 3 {
		t.Errorf("Cc[VINTR] = %d after apply, want 3", got.Cc[unix.VINTR])
	}
	if got.Cc[unix.VMIN] != 1 {
		t.Errorf("Cc[VMIN] = %d after apply, want 1", got.Cc[unix.VMIN])
	}
}
