// Package native binds the C167 flashing engine shared library.
//
// The library exports FlashMain, three callback registration functions
// (SetInitComCallback, SetTxCharCallback, SetRxCharCallback) and three stage copy
// functions (CopyStage1HexData to CopyStage3HexData). Open resolves all seven and
// returns a *Library that satisfies engine.Engine, so a Runner can drive it
// exactly like the in-process test engine.
//
// Symbols are bound with purego, so no C toolchain is needed. On Windows the
// DLL is loaded through golang.org/x/sys/windows.
//
// Callback trampolines are created once per Library and handed to the engine
// once. Registering a new Go function afterwards only changes what the
// trampoline dispatches to.
package native
