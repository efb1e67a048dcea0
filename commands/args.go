package commands

import (
	"fmt"
	"strings"
)

// ExpandInputArgs rewrites every bare value following an input flag into a
// repeated --input flag, so "-i a b c" selects three inputs. The flag parser
// would otherwise stop at "b" and treat the rest as positional arguments.
// It is also the only place the -i shorthand is understood. Arguments after
// "--" are left untouched.
func ExpandInputArgs(args []string) ([]string, error) {
	if len(args) == 0 {
		return args, nil
	}

	help := wantsHelp(args[1:])

	expanded := make([]string, 0, len(args))
	expanded = append(expanded, args[0])

	for i := 1; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			expanded = append(expanded, args[i:]...)
			break
		}

		name, value, hasValue := splitFlag(arg)
		if name != "i" && name != "input" {
			expanded = append(expanded, arg)
			continue
		}

		if hasValue {
			expanded = append(expanded, "--input", value)
		}

		values := 0
		for i+1 < len(args) && !isFlag(args[i+1]) {
			i++
			expanded = append(expanded, "--input", args[i])
			values++
		}

		// an input flag without value is dropped when help is shown anyway
		if !hasValue && values == 0 && !help {
			return nil, fmt.Errorf("flag needs an argument: %s", arg)
		}
	}

	return expanded, nil
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}

		name, value, hasValue := splitFlag(arg)
		if (name == "h" || name == "help") && (!hasValue || value == "true") {
			return true
		}
	}

	return false
}

func isFlag(arg string) bool {
	return len(arg) > 1 && strings.HasPrefix(arg, "-")
}

func splitFlag(arg string) (name string, value string, hasValue bool) {
	if !isFlag(arg) || arg == "--" {
		return "", "", false
	}

	name = strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
	name, value, hasValue = strings.Cut(name, "=")

	return name, value, hasValue
}
