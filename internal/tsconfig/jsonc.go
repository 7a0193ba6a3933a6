package tsconfig

// stripJSONC rewrites tsconfig-flavored JSON (line and block comments,
// trailing commas) into strict JSON. Comment characters inside string
// literals are left alone. Stripped runs are replaced with spaces so byte
// offsets in parse errors still line up with the original file.
func stripJSONC(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)

	const (
		code = iota
		inString
		lineComment
		blockComment
	)
	state := code
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch state {
		case code:
			switch {
			case c == '"':
				state = inString
			case c == '/' && i+1 < len(out) && out[i+1] == '/':
				state = lineComment
				out[i] = ' '
			case c == '/' && i+1 < len(out) && out[i+1] == '*':
				state = blockComment
				out[i] = ' '
			case c == ',':
				if j := nextStructural(out, i+1); j >= 0 && (out[j] == '}' || out[j] == ']') {
					out[i] = ' '
				}
			}
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				state = code
			}
		case lineComment:
			if c == '\n' {
				state = code
			} else {
				out[i] = ' '
			}
		case blockComment:
			if c == '*' && i+1 < len(out) && out[i+1] == '/' {
				out[i] = ' '
				out[i+1] = ' '
				i++
				state = code
			} else if c != '\n' {
				out[i] = ' '
			}
		}
	}
	return out
}

// nextStructural returns the index of the next byte that is neither
// whitespace nor part of a comment, or -1. Used to spot trailing commas.
func nextStructural(data []byte, i int) int {
	for i < len(data) {
		c := data[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			i += 2
			for i+1 < len(data) && !(data[i] == '*' && data[i+1] == '/') {
				i++
			}
			i += 2
		default:
			return i
		}
	}
	return -1
}
