package style

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	UpColor   = color.New(color.FgGreen)
	DownColor = color.New(color.FgRed)
)

// ChangeString formats a relative change as a signed percentage.
func ChangeString(change float64) string {
	if change > 0 {
		return fmt.Sprintf("+%.2f%%", change*100)
	}
	return fmt.Sprintf("%.2f%%", change*100)
}

// ColoredChangeString is ChangeString in green for gains and red for losses.
func ColoredChangeString(change float64) string {
	s := ChangeString(change)
	switch {
	case change > 0:
		return UpColor.Sprint(s)
	case change < 0:
		return DownColor.Sprint(s)
	}
	return s
}
