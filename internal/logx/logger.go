package logx

// Logger is the structured logger every dispatch component writes through.
// Implementations must be safe for concurrent use: one flow goroutine per order shares it.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

// Nop returns a Logger that drops everything.
func Nop() Logger { return discard{} }

type discard struct{}

func (discard) Debug(string, ...Field) {}

func (discard) Info(string, ...Field) {}

func (discard) Warn(string, ...Field) {}

func (discard) Error(string, ...Field) {}

func (d discard) With(...Field) Logger { return d }

func (discard) Sync() error { return nil }
