// Package unit holds the fixed table of CSS units recognized by the parser.
package unit

import "strings"

// Code identifies a CSS unit.
type Code uint8

const (
	None    Code = iota // plain number
	Percent             // %
	Unknown             // dimension with an unrecognized unit

	// absolute lengths
	PX
	CM
	MM
	Q
	IN
	PT
	PC

	// font relative lengths
	EM
	EX
	CAP
	CH
	IC
	LH
	REM
	REX
	RCAP
	RCH
	RIC
	RLH

	// viewport and container lengths
	VW
	VH
	VI
	VB
	VMIN
	VMAX
	SVW
	SVH
	LVW
	LVH
	DVW
	DVH
	CQW
	CQH
	CQI
	CQB
	CQMIN
	CQMAX

	// angles
	DEG
	GRAD
	RAD
	TURN

	// time
	S
	MS

	// frequency
	HZ
	KHZ

	// resolution
	DPI
	DPCM
	DPPX
	X

	// flex
	FR
)

// Category groups units that can be combined inside a math expression.
type Category uint8

const (
	Number Category = iota
	Percentage
	Length
	Angle
	Time
	Frequency
	Resolution
	Flex
	Other
)

var categoryNames = [...]string{
	Number:     "number",
	Percentage: "percentage",
	Length:     "length",
	Angle:      "angle",
	Time:       "time",
	Frequency:  "frequency",
	Resolution: "resolution",
	Flex:       "flex",
	Other:      "unknown",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

type info struct {
	text string
	cat  Category
}

var table = [...]info{
	None:    {"", Number},
	Percent: {"%", Percentage},
	Unknown: {"", Other},
	PX:      {"px", Length},
	CM:      {"cm", Length},
	MM:      {"mm", Length},
	Q:       {"Q", Length},
	IN:      {"in", Length},
	PT:      {"pt", Length},
	PC:      {"pc", Length},
	EM:      {"em", Length},
	EX:      {"ex", Length},
	CAP:     {"cap", Length},
	CH:      {"ch", Length},
	IC:      {"ic", Length},
	LH:      {"lh", Length},
	REM:     {"rem", Length},
	REX:     {"rex", Length},
	RCAP:    {"rcap", Length},
	RCH:     {"rch", Length},
	RIC:     {"ric", Length},
	RLH:     {"rlh", Length},
	VW:      {"vw", Length},
	VH:      {"vh", Length},
	VI:      {"vi", Length},
	VB:      {"vb", Length},
	VMIN:    {"vmin", Length},
	VMAX:    {"vmax", Length},
	SVW:     {"svw", Length},
	SVH:     {"svh", Length},
	LVW:     {"lvw", Length},
	LVH:     {"lvh", Length},
	DVW:     {"dvw", Length},
	DVH:     {"dvh", Length},
	CQW:     {"cqw", Length},
	CQH:     {"cqh", Length},
	CQI:     {"cqi", Length},
	CQB:     {"cqb", Length},
	CQMIN:   {"cqmin", Length},
	CQMAX:   {"cqmax", Length},
	DEG:     {"deg", Angle},
	GRAD:    {"grad", Angle},
	RAD:     {"rad", Angle},
	TURN:    {"turn", Angle},
	S:       {"s", Time},
	MS:      {"ms", Time},
	HZ:      {"Hz", Frequency},
	KHZ:     {"kHz", Frequency},
	DPI:     {"dpi", Resolution},
	DPCM:    {"dpcm", Resolution},
	DPPX:    {"dppx", Resolution},
	X:       {"x", Resolution},
	FR:      {"fr", Flex},
}

var byName map[string]Code

func init() {
	byName = make(map[string]Code, len(table))
	for i := PX; int(i) < len(table); i++ {
		byName[strings.ToLower(table[i].text)] = i
	}
}

// Lookup returns the unit code for the given unit text. Matching is ASCII
// case-insensitive. An empty string maps to None, "%" to Percent and anything
// not in the table to Unknown with ok set to false.
func Lookup(s string) (c Code, ok bool) {
	switch s {
	case "":
		return None, true
	case "%":
		return Percent, true
	}
	if c, ok := byName[strings.ToLower(s)]; ok {
		return c, true
	}
	return Unknown, false
}

// String returns the canonical text of the unit.
func (c Code) String() string {
	if int(c) < len(table) {
		return table[c].text
	}
	return ""
}

// Category returns the category of the unit.
func (c Code) Category() Category {
	if int(c) < len(table) {
		return table[c].cat
	}
	return Other
}

// IsLength returns true for length units.
func (c Code) IsLength() bool { return c.Category() == Length }

// IsAngle returns true for angle units.
func (c Code) IsAngle() bool { return c.Category() == Angle }

// IsTime returns true for time units.
func (c Code) IsTime() bool { return c.Category() == Time }

// IsResolution returns true for resolution units.
func (c Code) IsResolution() bool { return c.Category() == Resolution }

// IsRelative returns true for font, viewport and container relative lengths.
func (c Code) IsRelative() bool {
	return c >= EM && c <= CQMAX
}
