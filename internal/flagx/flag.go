// Package flagx lets several parsers share os.Args: each one keeps only the
// arguments that belong to its own flags.
package flagx

import (
	"flag"
	"strings"
)

type boolFlag interface {
	IsBoolFlag() bool
}

// FilterArgs returns the arguments of args that set flags defined on fs,
// in their original order. Both "-name value" and "-name=value" forms are
// recognised, with one or two leading dashes. A non-boolean flag consumes
// the next argument as its value even when it starts with '-', the same way
// the flag package does.
func FilterArgs(fs *flag.FlagSet, args []string) []string {
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) < 2 || arg[0] != '-' || arg == "--" {
			continue
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		f := fs.Lookup(name)
		if f == nil {
			continue
		}

		filtered = append(filtered, arg)
		if hasValue {
			continue
		}
		if bf, ok := f.Value.(boolFlag); ok && bf.IsBoolFlag() {
			continue
		}
		if i+1 < len(args) {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath returns the config file named by -c or -config in args. When
// both are given the last one wins; when neither is, it returns "".
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(fs, args))

	return path
}
