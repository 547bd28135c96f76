package keyinput

import "github.com/go-vgo/robotgo"

// Driver performs the raw input actions.
type Driver interface {
	WriteClipboard(text string) error
	// Tap presses and releases key while holding modifiers. Empty
	// modifiers are ignored.
	Tap(key string, modifiers ...string) error
	Type(s string)
}

// RobotDriver is the robotgo Driver.
type RobotDriver struct{}

func (RobotDriver) WriteClipboard(text string) error {
	return robotgo.WriteAll(text)
}

func (RobotDriver) Tap(key string, modifiers ...string) error {
	mods := make([]string, 0, len(modifiers))
	for _, m := range modifiers {
		if m != "" {
			mods = append(mods, m)
		}
	}
	if len(mods) == 0 {
		return robotgo.KeyTap(key)
	}
	return robotgo.KeyTap(key, mods)
}

func (RobotDriver) Type(s string) {
	robotgo.TypeStr(s)
}
