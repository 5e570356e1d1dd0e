package stage

import "strings"

// Variant selects the stage 2 image.
type Variant int

// Stage 2 variants.
const (
	Standard Variant = iota
	MVB
	IPACK2
)

// Payload names of the bundled stage files.
const (
	Stage1Name   = "STAGE1"
	Stage2Name   = "STAGE2"
	Stage2MVName = "STAGE2MV"
	Stage2IPName = "STAGE2IP"
	Stage3Name   = "STAGE3"
)

func (v Variant) String() string {
	switch v {
	case MVB:
		return "MVB"
	case IPACK2:
		return "IPACK2"
	default:
		return "standard"
	}
}

// PayloadName returns the stage 2 payload for v.
func (v Variant) PayloadName() string {
	switch v {
	case MVB:
		return Stage2MVName
	case IPACK2:
		return Stage2IPName
	default:
		return Stage2Name
	}
}

// SelectVariant resolves the two board flags. MVB takes precedence when both are
// set; neither selects Standard.
func SelectVariant(useMVB, useIPACK2 bool) Variant {
	switch {
	case useMVB:
		return MVB
	case useIPACK2:
		return IPACK2
	default:
		return Standard
	}
}

// VariantFromArgs scans command line arguments for the board keywords, case
// insensitively.
func VariantFromArgs(args []string) Variant {
	var useMVB, useIPACK2 bool
	for _, arg := range args {
		switch strings.ToUpper(arg) {
		case "MVB":
			useMVB = true
		case "IPACK2":
			useIPACK2 = true
		}
	}
	return SelectVariant(useMVB, useIPACK2)
}
