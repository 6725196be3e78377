//go:build windows

package selector

// AppendEscaped appends value to dst unchanged: cmd.exe /S hands the quoted
// text to KPScript, which splits its own command line.
func AppendEscaped(dst, value []byte) []byte {
	return append(dst, value...)
}

func Token(s string) string {
	return s
}
