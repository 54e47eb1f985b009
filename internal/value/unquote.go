package value

import (
	"strings"

	"jabroni/internal/errs"
)

const alreadyParsedMessage = "attempted to unquote an already unquoted string"

// Unquote strips matching ' or " delimiters and resolves the escape
// sequences \n \t \r \\ \' \".
func Unquote(literal string) (string, error) {
	if len(literal) < 2 {
		return "", errs.Parse(alreadyParsedMessage)
	}

	runes := []rune(literal)
	terminator := runes[0]
	if terminator != '"' && terminator != '\'' {
		return "", errs.Parse(alreadyParsedMessage)
	}

	var output strings.Builder
	backslash := false

	for i := 1; i < len(runes); i++ {
		c := runes[i]
		if c == '\\' && !backslash {
			backslash = true
			continue
		}
		if c == terminator && !backslash {
			if i != len(runes)-1 {
				return "", errs.Parse("while parsing string, met terminator before end of string")
			}
			return output.String(), nil
		}

		if backslash {
			switch c {
			case 'n':
				output.WriteRune('\n')
			case 't':
				output.WriteRune('\t')
			case 'r':
				output.WriteRune('\r')
			case '\\', '\'', '"':
				output.WriteRune(c)
			default:
				return "", errs.Parse("found unknown escape sequence while parsing string")
			}
		} else {
			output.WriteRune(c)
		}
		backslash = false
	}

	return "", errs.Parse("string parsing unexpectedly cut short")
}
