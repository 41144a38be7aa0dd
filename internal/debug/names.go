package debug

import (
	"fmt"

	"github.com/ryanlewis/figbar/internal/common"
)

// AlignName returns the trace name of an alignment mode.
func AlignName(mode int) string {
	switch mode {
	case common.AlignLeft:
		return "left"
	case common.AlignCenter:
		return "center"
	case common.AlignRight:
		return "right"
	}
	return fmt.Sprintf("align(%d)", mode)
}

// PaletteSlotName names a palette index the way traces show it.
// The two defaults get their role, selectable colors their digit.
func PaletteSlotName(index int) string {
	switch {
	case index == common.DefaultBackground:
		return "default-bg"
	case index == common.DefaultForeground:
		return "default-fg"
	case index >= 0 && index < common.SelectableColors:
		return fmt.Sprintf("color%d", index)
	}
	return fmt.Sprintf("invalid(%d)", index)
}
