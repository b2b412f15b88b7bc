package editor

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows transient notices to the user. None of them are fatal.
type Notifier interface {
	Notify(level Level, msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, msg string)

func (f NotifierFunc) Notify(level Level, msg string) { f(level, msg) }

// Discard drops every notice.
var Discard Notifier = NotifierFunc(func(Level, string) {})
