package mintgate

import (
	"context"
	"fmt"
	"strings"
)

// LogCollector gathers the program log lines emitted while a single
// transaction is processed. Lines are kept even if the transaction fails, so
// that the caller can see how far the processing went.
//
// A collector is used by a single transaction only and is not safe for
// concurrent use.
type LogCollector struct {
	lines []string
}

// NewLogCollector returns an empty collector.
func NewLogCollector() *LogCollector {
	return &LogCollector{}
}

// Append adds a raw line.
func (c *LogCollector) Append(line string) {
	c.lines = append(c.lines, line)
}

// Lines returns a copy of all collected lines in the order they were written.
func (c *LogCollector) Lines() []string {
	res := make([]string, len(c.lines))
	copy(res, c.lines)
	return res
}

// WithLogCollector attaches a collector to the context. All Log calls made
// with the returned context are recorded by it.
func WithLogCollector(ctx Context, c *LogCollector) Context {
	return context.WithValue(ctx, contextKeyLogs, c)
}

// GetLogCollector returns the collector attached to the context or nil.
func GetLogCollector(ctx Context) *LogCollector {
	c, _ := ctx.Value(contextKeyLogs).(*LogCollector)
	return c
}

// Log emits a program log line. The line is written to the context logger
// and recorded by the log collector, if one is attached.
//
// keyvals must be pairs of a string key and any value.
func Log(ctx Context, msg string, keyvals ...interface{}) {
	GetLogger(ctx).Info(msg, keyvals...)
	if c := GetLogCollector(ctx); c != nil {
		c.Append("Program log: " + formatLine(msg, keyvals))
	}
}

func formatLine(msg string, keyvals []interface{}) string {
	if len(keyvals) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(keyvals); i += 2 {
		b.WriteByte(' ')
		if i+1 == len(keyvals) {
			fmt.Fprintf(&b, "%v=<missing>", keyvals[i])
			break
		}
		fmt.Fprintf(&b, "%v=%v", keyvals[i], keyvals[i+1])
	}
	return b.String()
}
