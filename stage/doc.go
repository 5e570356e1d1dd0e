// Package stage prepares the three stage hex files and hands them to the engine.
//
// The flash monitor runs in three stages. Stage 1 and stage 3 are fixed; stage 2
// comes in three variants because MVB and IPACK2 boards map RAM and FLASH
// differently in the C167:
//
//	Standard  STAGE2
//	MVB       STAGE2MV
//	IPACK2    STAGE2IP
//
// Exactly one variant is active for a run. When both board flags are set, MVB
// wins, the same outcome as scanning the command line and stopping at MVB.
//
// Stage text is decoded as UTF-8 and copied, unchanged, into a buffer of exactly
// its length for each copy hook. Engines that implement CapacityDeclarer get
// their fixed buffer sizes checked before any hook runs.
package stage
