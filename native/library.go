package native

import (
	"runtime"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/SiGenixDave/FlashC167-R188TestBench/engine"
)

// Exported symbol names.
const (
	SymbolFlashMain          = "FlashMain"
	SymbolSetInitComCallback = "SetInitComCallback"
	SymbolSetTxCharCallback  = "SetTxCharCallback"
	SymbolSetRxCharCallback  = "SetRxCharCallback"
	SymbolCopyStage1         = "CopyStage1HexData"
	SymbolCopyStage2         = "CopyStage2HexData"
	SymbolCopyStage3         = "CopyStage3HexData"
)

// Stage buffer sizes compiled into the engine, terminator included.
const (
	Stage1Capacity = 100
	Stage2Capacity = 500
	Stage3Capacity = 20000
)

// DefaultFileName returns the platform file name of the engine library.
func DefaultFileName() string {
	switch runtime.GOOS {
	case "windows":
		return "FlashSourcesDLL.dll"
	case "darwin":
		return "libFlashSources.dylib"
	default:
		return "libFlashSources.so"
	}
}

// lookupFunc resolves an exported symbol to its address.
type lookupFunc func(name string) (uintptr, error)

// Library is a loaded engine library.
type Library struct {
	path    string
	release func() error

	flashMain  func(argc int32, argv **byte) int32
	setInitCom func(fn uintptr)
	setTxChar  func(fn uintptr)
	setRxChar  func(fn uintptr)
	copyStage  [3]func(buf *byte, size int32)

	mu        sync.Mutex
	configure engine.ConfigureFunc
	transmit  engine.TransmitFunc
	receive   engine.ReceiveFunc

	configureOnce sync.Once
	transmitOnce  sync.Once
	receiveOnce   sync.Once
}

var _ engine.Engine = (*Library)(nil)

// Open loads the engine library at path and binds its exports.
func Open(path string) (*Library, error) {
	lookup, release, err := openLibrary(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	l := &Library{path: path, release: release}
	if err := l.bind(lookup); err != nil {
		_ = release()
		return nil, err
	}
	return l, nil
}

func (l *Library) bind(lookup lookupFunc) error {
	exports := []struct {
		name string
		fptr interface{}
	}{
		{SymbolFlashMain, &l.flashMain},
		{SymbolSetInitComCallback, &l.setInitCom},
		{SymbolSetTxCharCallback, &l.setTxChar},
		{SymbolSetRxCharCallback, &l.setRxChar},
		{SymbolCopyStage1, &l.copyStage[0]},
		{SymbolCopyStage2, &l.copyStage[1]},
		{SymbolCopyStage3, &l.copyStage[2]},
	}

	for _, exp := range exports {
		addr, err := lookup(exp.name)
		if err != nil {
			return &LoadError{Path: l.path, Symbol: exp.name, Err: err}
		}
		purego.RegisterFunc(exp.fptr, addr)
	}
	return nil
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// Close unloads the library. The engine must not be running.
func (l *Library) Close() error {
	if l.release == nil {
		return nil
	}
	release := l.release
	l.release = nil
	return release()
}

// RegisterConfigureCallback installs fn as the engine's port open hook.
func (l *Library) RegisterConfigureCallback(fn engine.ConfigureFunc) {
	l.mu.Lock()
	l.configure = fn
	l.mu.Unlock()

	l.configureOnce.Do(func() {
		l.setInitCom(purego.NewCallback(func(port, baud uintptr) uintptr {
			l.mu.Lock()
			cb := l.configure
			l.mu.Unlock()
			if cb != nil {
				cb(uint16(port), uint16(baud))
			}
			return 0
		}))
	})
}

// RegisterTransmitCallback installs fn as the engine's byte transmit hook.
func (l *Library) RegisterTransmitCallback(fn engine.TransmitFunc) {
	l.mu.Lock()
	l.transmit = fn
	l.mu.Unlock()

	l.transmitOnce.Do(func() {
		l.setTxChar(purego.NewCallback(func(c uintptr) uintptr {
			l.mu.Lock()
			cb := l.transmit
			l.mu.Unlock()
			if cb != nil {
				cb(byte(c))
			}
			return 0
		}))
	})
}

// RegisterReceiveCallback installs fn as the engine's byte receive hook.
func (l *Library) RegisterReceiveCallback(fn engine.ReceiveFunc) {
	l.mu.Lock()
	l.receive = fn
	l.mu.Unlock()

	l.receiveOnce.Do(func() {
		l.setRxChar(purego.NewCallback(func() uintptr {
			l.mu.Lock()
			cb := l.receive
			l.mu.Unlock()
			return receiveResult(cb)
		}))
	})
}

func (l *Library) CopyStage1(buf []byte, size int32) { l.copy(0, buf, size) }
func (l *Library) CopyStage2(buf []byte, size int32) { l.copy(1, buf, size) }
func (l *Library) CopyStage3(buf []byte, size int32) { l.copy(2, buf, size) }

// copy passes the stage text as a C string. The engine strcpy's it into its
// static buffer, so the terminator is required.
func (l *Library) copy(i int, buf []byte, size int32) {
	cstr := cBytes(buf[:size])
	l.copyStage[i](&cstr[0], size)
	runtime.KeepAlive(cstr)
}

// receiveResult calls cb and widens its int32 result to the C int return
// register, sign extended so -1 stays -1. A missing callback reads as no byte.
func receiveResult(cb engine.ReceiveFunc) uintptr {
	v := int32(-1)
	if cb != nil {
		v = cb()
	}
	return uintptr(int(v))
}

// StageCapacities reports the engine's static stage buffer sizes.
func (l *Library) StageCapacities() [3]int {
	return [3]int{Stage1Capacity, Stage2Capacity, Stage3Capacity}
}

// FlashMain runs the engine. argv is passed whole; argc is the caller's count.
func (l *Library) FlashMain(argc int32, argv []string) int32 {
	ptrs, keep := cArgv(argv)
	status := l.flashMain(argc, &ptrs[0])
	runtime.KeepAlive(ptrs)
	runtime.KeepAlive(keep)
	return status
}

// cBytes returns a NUL-terminated copy of b.
func cBytes(b []byte) []byte {
	out := make([]byte, len(b)+1)
	copy(out, b)
	return out
}

// cArgv builds a NULL-terminated char* array. The returned strings back the
// pointers and must stay reachable for the duration of the call.
func cArgv(args []string) ([]*byte, [][]byte) {
	keep := make([][]byte, len(args))
	ptrs := make([]*byte, len(args)+1)
	for i, arg := range args {
		keep[i] = cBytes([]byte(arg))
		ptrs[i] = &keep[i][0]
	}
	return ptrs, keep
}
