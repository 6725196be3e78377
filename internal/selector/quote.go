package selector

// Quote renders value as a double-quoted flag value, escaped for the shell
// that runs the KPScript command line.
func Quote(value string) string {
	dst := make([]byte, 0, 2*len(value)+2)
	dst = append(dst, '"')
	dst = AppendEscaped(dst, []byte(value))
	return string(append(dst, '"'))
}
