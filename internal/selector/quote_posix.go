//go:build !windows

package selector

import "al.essio.dev/pkg/shellescape"

// AppendEscaped appends value to dst, ready to sit between double quotes.
// /bin/sh still expands $ and ` there, and \ and " keep a meaning. The output
// is at most twice as long as value.
func AppendEscaped(dst, value []byte) []byte {
	for _, c := range value {
		switch c {
		case '\\', '"', '$', '`':
			dst = append(dst, '\\')
		}
		dst = append(dst, c)
	}
	return dst
}

// Token renders an unquoted part of a flag, such as a field name, so that the
// shell passes it through unchanged. Plain names are left as they are.
func Token(s string) string {
	return shellescape.Quote(s)
}
