package bridge

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/internal/fmtbuf"
)

// MessageSize is the capacity of the buffer printf-style records are
// formatted into. Longer messages are cut at a character boundary.
const MessageSize = 512

// prefixSize bounds the caller prefix of typed records.
const prefixSize = 256

// callerInfo describes the application frame a record is attributed to.
type callerInfo struct {
	module string
	file   string
	line   int
}

// lookupCaller resolves the frame skip levels above its caller.
func lookupCaller(skip int) callerInfo {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return callerInfo{module: unknown, file: unknown}
	}

	info := callerInfo{file: filepath.Base(file), line: line, module: unknown}

	if fn := runtime.FuncForPC(pc); fn != nil {
		info.module = packageOf(fn.Name())
	}

	return info
}

// packageOf extracts the package path from a fully qualified function name
// such as "github.com/acme/app/server.(*Server).Start".
func packageOf(funcName string) string {
	lastSlash := strings.LastIndexByte(funcName, '/')
	dot := strings.IndexByte(funcName[lastSlash+1:], '.')

	if dot < 0 {
		return funcName
	}

	return funcName[:lastSlash+1+dot]
}

const unknown = "unknown"

// writePrefix writes "[module:file:line] " with the enabled parts. Each part
// is written with a trailing separator and the last one is taken back before
// the closing bracket. Nothing is written when every part is disabled.
func (b *Bridge) writePrefix(buf *fmtbuf.Buffer, skip int) {
	if !b.showsCaller() {
		return
	}

	b.writeCaller(buf, lookupCaller(skip+1))
}

// writeCaller writes the enabled parts of info. The trailing ":" is taken
// back only when it was actually written, so a part that filled the buffer
// is not cut further.
func (b *Bridge) writeCaller(buf *fmtbuf.Buffer, info callerInfo) {
	_, _ = buf.WriteString("[")

	var separated bool

	part := func(text string) {
		_, _ = buf.WriteString(text)
		n, _ := buf.WriteString(":")
		separated = n == 1
	}

	if b.showModule {
		part(info.module)
	}

	if b.showFile {
		part(info.file)
	}

	if b.showLine {
		part(strconv.Itoa(info.line))
	}

	if separated {
		buf.Revert(1)
	}

	_, _ = buf.WriteString("] ")
}

// emitf formats a printf-style record into a bounded buffer and hands it to
// the recorder as one string write.
func (b *Bridge) emitf(skip int, level logbridge.Level, format string, args []any) {
	if !b.Enabled(level) {
		return
	}

	var storage [MessageSize]byte

	buf := fmtbuf.New(storage[:])

	b.writePrefix(buf, skip+1)

	// a full buffer only truncates the record
	_, _ = fmt.Fprintf(buf, format, args...)

	stream := Open(b.rec, b.ctx, level)
	defer stream.Close()

	stream.WriteString(buf.String())
}
