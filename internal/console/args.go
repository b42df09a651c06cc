package console

import (
	"strings"
	"unicode"
)

// splitArgs 按空白拆分，支持单双引号包裹含空格的参数
// splitArgs splits on whitespace; single or double quotes group words
func splitArgs(line string) []string {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		started bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			started = true
		case unicode.IsSpace(r):
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, cur.String())
	}
	return args
}

// extractFlags 取出 --name value 形式的参数；bools 中的名字不带值
// extractFlags pulls out --name value pairs; names listed in bools take no value
func extractFlags(args []string, valued []string, bools []string) (map[string]string, []string) {
	isValued := make(map[string]bool, len(valued))
	for _, v := range valued {
		isValued[v] = true
	}
	isBool := make(map[string]bool, len(bools))
	for _, b := range bools {
		isBool[b] = true
	}

	flags := map[string]string{}
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "--") {
			rest = append(rest, a)
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimPrefix(a, "--"), "=")
		switch {
		case isBool[name]:
			flags[name] = "1"
		case isValued[name] && hasValue:
			flags[name] = value
		case isValued[name] && i+1 < len(args):
			flags[name] = args[i+1]
			i++
		case isValued[name]:
			flags[name] = ""
		default:
			rest = append(rest, a)
		}
	}
	return flags, rest
}
