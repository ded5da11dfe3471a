package timefmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatPomodoroTime(t *testing.T) {
	t.Parallel()

	cases := map[int64]string{
		-5:   "00:00",
		0:    "00:00",
		59:   "00:59",
		60:   "01:00",
		61:   "01:01",
		1500: "25:00",
		3599: "59:59",
		3600: "60:00",
		6000: "100:00",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatPomodoroTime(in), "seconds=%d", in)
	}
}

func TestFormatTimeHuman(t *testing.T) {
	t.Parallel()

	cases := map[int64]string{
		-1:   "0s",
		0:    "0s",
		59:   "59s",
		60:   "1m",
		61:   "1m",
		3599: "59m",
		3600: "1h 0m",
		4980: "1h 23m",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatTimeHuman(in), "seconds=%d", in)
	}
}

func TestFormatTimeHumanBoundariesAreDistinct(t *testing.T) {
	t.Parallel()

	seen := map[string]int64{}
	for _, in := range []int64{0, 59, 3600} {
		out := FormatTimeHuman(in)
		prev, dup := seen[out]
		require.Falsef(t, dup, "%d and %d both render %q", prev, in, out)
		seen[out] = in
	}
}
