// Package engine connects the native C167 flashing engine to the serial bridge
// and the stage files.
//
// # Overview
//
// The engine is an external library with one entry point, FlashMain, three
// callback registration hooks and three stage copy hooks. Runner drives one
// flashing run:
//  1. Register the bridge callbacks (once per Runner)
//  2. Prepare the stage files for the board variant named on the command line
//  3. Copy the stages into the engine
//  4. Call FlashMain; the engine calls back into the bridge once per byte
//  5. Surface a port-open failure recorded during the run
//
// # Basic Usage
//
//	lib, err := native.Open("FlashSourcesDLL.dll")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	bridge := serialbridge.New()
//	defer bridge.Close()
//
//	run := engine.New(lib, bridge, stage.NewLoader(store))
//	res, err := run.Run(ctx, os.Args[1:])
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := engine.WriteResult(res.ResultPath, res.Status); err != nil {
//	    log.Fatal(err)
//	}
//
// # Arguments
//
// The last argument is always the path of the result file. It is excluded from
// argc, so the engine never sees it, but argv is passed whole.
//
// # Result File
//
// The result file holds a single line, "1[" + three-digit status + "]", ended by
// the platform newline. Status 0 is success; every other value is an engine
// failure code.
//
// # Cancellation
//
// FlashMain cannot be interrupted. Cancelling the context passed to Run closes
// the serial session, which makes every following receive time out so the engine
// gives up on its own.
package engine
