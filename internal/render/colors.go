package render

import "fmt"

// ANSI 256-color helpers for the plain-text pages. Terminal clients are the
// only consumers of the text format, so colors are always emitted.

func lightBlue(s string) string {
	return fmt.Sprintf("\x1b[38;5;117m%s\x1b[0m", s)
}

func green(s string) string {
	return fmt.Sprintf("\x1b[38;5;120m%s\x1b[0m", s)
}

func brightRed(s string) string {
	return fmt.Sprintf("\x1b[38;5;196m%s\x1b[0m", s)
}

func brightYellow(s string) string {
	return fmt.Sprintf("\x1b[38;5;226m%s\x1b[0m", s)
}

func brightPurple(s string) string {
	return fmt.Sprintf("\x1b[38;5;129m%s\x1b[0m", s)
}
