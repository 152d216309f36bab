// Package modes maps PX4 commander states to flight modes and segments a
// logged state series into contiguous same-mode intervals for chart
// overlays.
package modes

import (
	"fmt"
	"image/color"
)

// Mode is a PX4 commander main state.
type Mode int

const (
	Manual Mode = iota
	AltCtl
	PosCtl
	AutoMission
	AutoLoiter
	AutoRTL
	Acro
	Offboard
	Stab
	Rattitude
	AutoTakeoff
	AutoLand
	AutoFollowTarget
	Max
)

var names = []string{
	"MANUAL",
	"ALTCTL",
	"POSCTL",
	"AUTO_MISSION",
	"AUTO_LOITER",
	"AUTO_RTL",
	"ACRO",
	"OFFBOARD",
	"STAB",
	"RATTITUDE",
	"AUTO_TAKEOFF",
	"AUTO_LAND",
	"AUTO_FOLLOW_TARGET",
	"MAX",
}

// colors assigns each mode a stable, distinguishable color. Translucency
// for overlays is applied by the consumer.
var colors = []color.RGBA{
	{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, // MANUAL: white
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}, // ALTCTL: blue
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}, // POSCTL: green
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}, // AUTO_MISSION: orange
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff}, // AUTO_LOITER: purple
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}, // AUTO_RTL: red
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff}, // ACRO: brown
	{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff}, // OFFBOARD: pink
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}, // STAB: grey
	{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff}, // RATTITUDE: olive
	{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff}, // AUTO_TAKEOFF: cyan
	{R: 0xaa, G: 0x40, B: 0xfc, A: 0xff}, // AUTO_LAND: violet
	{R: 0x77, G: 0xb4, B: 0x1f, A: 0xff}, // AUTO_FOLLOW_TARGET: lime
	{R: 0x00, G: 0x00, B: 0x00, A: 0xff}, // MAX: black
}

// String returns the PX4 name of the mode, or UNKNOWN(n) for values outside
// the commander enumeration.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(names) {
		return fmt.Sprintf("UNKNOWN(%d)", int(m))
	}
	return names[int(m)]
}

// Color returns the display color of the mode.
func (m Mode) Color() color.RGBA {
	if m < 0 || int(m) >= len(colors) {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return colors[int(m)]
}

// All returns every known mode in enumeration order.
func All() []Mode {
	out := make([]Mode, len(names))
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// Names returns the PX4 mode names in enumeration order, for use as axis
// tick labels.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}
