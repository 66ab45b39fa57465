package note

import "regexp"

// step is a single pure string transformation.
type step func(string) string

// compose chains steps left to right.
func compose(steps ...step) step {
	return func(s string) string {
		for _, fn := range steps {
			s = fn(s)
		}
		return s
	}
}

// remove returns a step deleting every match of re.
func remove(re *regexp.Regexp) step {
	return replace(re, "")
}

// replace returns a step substituting every match of re with repl ($n expansion applies).
func replace(re *regexp.Regexp, repl string) step {
	return func(s string) string {
		return re.ReplaceAllString(s, repl)
	}
}
