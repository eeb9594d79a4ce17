// Package flagx lets several packages read their own command-line flags
// from the same argument list without tripping over each other's flags.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs keeps only the flags named in allowedFlags (with their values)
// and drops everything else.
//
// Both "-f value" and "-f=value" forms are recognised. A token following an
// allowed flag is treated as its value unless it starts with "-".
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := allowed[name]; keep {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, keep := allowed[arg]; !keep {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// stringFlag returns the last value given for any of the aliases, or "".
func stringFlag(args []string, usage string, aliases ...string) string {
	dashed := make([]string, 0, len(aliases))
	for _, a := range aliases {
		dashed = append(dashed, "-"+a)
	}

	var value string
	fs := flag.NewFlagSet("flagx", flag.ContinueOnError)
	fs.SetOutput(discard{})
	for _, a := range aliases {
		fs.StringVar(&value, a, "", usage)
	}
	_ = fs.Parse(FilterArgs(args, dashed))
	return value
}

// ConfigFileFlag extracts the JSON config path given via -c or -config.
func ConfigFileFlag(args []string) string {
	return stringFlag(args, "path to JSON config file", "c", "config")
}

// EnvFileFlag extracts the dotenv path given via -env.
func EnvFileFlag(args []string) string {
	return stringFlag(args, "path to .env file", "env")
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
