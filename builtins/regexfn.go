package builtins

import (
	"regexp"
	"strconv"
	"strings"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/value"
)

// rewriteNamedGroups translates the `(?<name>...)` named-capture syntax used
// by the original pattern language into Go's `(?P<name>...)`, since
// regexp/syntax (RE2) only accepts the latter.
func rewriteNamedGroups(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if i+2 < len(pattern) && pattern[i] == '(' && pattern[i+1] == '?' && pattern[i+2] == '<' {
			// Don't touch lookbehind syntax `(?<=` / `(?<!`, which RE2
			// doesn't support either but which shouldn't be mistaken for
			// a named group.
			if i+3 < len(pattern) && (pattern[i+3] == '=' || pattern[i+3] == '!') {
				b.WriteByte(pattern[i])
				continue
			}
			b.WriteString("(?P<")
			i += 2
			continue
		}
		b.WriteByte(pattern[i])
	}
	return b.String()
}

// compileConstantRegex requires node to be a string exec.Constant (a literal
// or a constant-folded expression) and fails with RegexError otherwise. The
// pattern is compiled with regexp.Compile on every call; nothing is cached.
func compileConstantRegex(fn string, node exec.Node) (*regexp.Regexp, error) {
	c, ok := node.(*exec.Constant)
	if !ok || !c.Value.IsString() {
		return nil, kerrors.NewAt(kerrors.RegexError, node.Span(), "%s: pattern argument must be a constant string", fn)
	}
	re, err := regexp.Compile(rewriteNamedGroups(c.Value.AsString()))
	if err != nil {
		return nil, kerrors.NewAt(kerrors.RegexError, node.Span(), "%s: invalid pattern: %s", fn, err.Error())
	}
	return re, nil
}

func registerRegex() {
	register(&exec.BuiltinEntry{
		Name: "regex_is_match", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			s, re, err := evalRegexSubject(ev, args, "regex_is_match")
			if err != nil {
				return value.Null, err
			}
			return value.Bool(re.MatchString(s)), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "regex_first_match", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			s, re, err := evalRegexSubject(ev, args, "regex_first_match")
			if err != nil {
				return value.Null, err
			}
			m := re.FindString(s)
			if m == "" && !re.MatchString(s) {
				return value.Null, nil
			}
			return value.String(m), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "regex_all_matches", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			s, re, err := evalRegexSubject(ev, args, "regex_all_matches")
			if err != nil {
				return value.Null, err
			}
			matches := re.FindAllString(s, -1)
			out := make([]value.Value, len(matches))
			for i, m := range matches {
				out[i] = value.String(m)
			}
			return value.Array(out), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "regex_first_captures", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			s, re, err := evalRegexSubject(ev, args, "regex_first_captures")
			if err != nil {
				return value.Null, err
			}
			m := re.FindStringSubmatch(s)
			if m == nil {
				return value.Null, nil
			}
			return value.Obj(captureObject(re, m)), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "regex_all_captures", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			s, re, err := evalRegexSubject(ev, args, "regex_all_captures")
			if err != nil {
				return value.Null, err
			}
			all := re.FindAllStringSubmatch(s, -1)
			out := make([]value.Value, len(all))
			for i, m := range all {
				out[i] = value.Obj(captureObject(re, m))
			}
			return value.Array(out), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "regex_replace", MinArity: 3, MaxArity: 3, Deterministic: true,
		Fn: regexReplaceFn(false),
	})
	register(&exec.BuiltinEntry{
		Name: "regex_replace_all", MinArity: 3, MaxArity: 3, Deterministic: true,
		Fn: regexReplaceFn(true),
	})
}

func evalRegexSubject(ev exec.Evaluator, args []exec.Node, fn string) (string, *regexp.Regexp, error) {
	sv, err := ev.Eval(args[0])
	if err != nil {
		return "", nil, err
	}
	s, err := requireString(fn, args[0], sv)
	if err != nil {
		return "", nil, err
	}
	re, err := compileConstantRegex(fn, args[1])
	if err != nil {
		return "", nil, err
	}
	return s, re, nil
}

// captureObject keys the whole match and every capture group by name when
// the pattern names it, and always by its stringified index otherwise; "0"
// (the whole match) is always present.
func captureObject(re *regexp.Regexp, m []string) *value.Object {
	out := value.NewObject()
	names := re.SubexpNames()
	for i, g := range m {
		key := strconv.Itoa(i)
		if i < len(names) && names[i] != "" {
			key = names[i]
		}
		out.Set(key, value.String(g))
	}
	return out
}

func regexReplaceFn(all bool) exec.BuiltinFunc {
	return func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
		sv, err := ev.Eval(args[0])
		if err != nil {
			return value.Null, err
		}
		s, err := requireString("regex_replace", args[0], sv)
		if err != nil {
			return value.Null, err
		}
		re, err := compileConstantRegex("regex_replace", args[1])
		if err != nil {
			return value.Null, err
		}
		rv, err := ev.Eval(args[2])
		if err != nil {
			return value.Null, err
		}
		repl, err := requireString("regex_replace", args[2], rv)
		if err != nil {
			return value.Null, err
		}
		repl = convertDollarRefs(repl)
		if all {
			return value.String(re.ReplaceAllString(s, repl)), nil
		}
		done := false
		result := re.ReplaceAllStringFunc(s, func(m string) string {
			if done {
				return m
			}
			done = true
			return re.ReplaceAllString(m, repl)
		})
		return value.String(result), nil
	}
}

// convertDollarRefs rewrites `\1`-style backreferences (used by the
// original pattern language) into Go's `$1` template syntax.
func convertDollarRefs(repl string) string {
	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		if repl[i] == '\\' && i+1 < len(repl) && repl[i+1] >= '0' && repl[i+1] <= '9' {
			b.WriteByte('$')
			b.WriteByte(repl[i+1])
			i++
			continue
		}
		b.WriteByte(repl[i])
	}
	return b.String()
}
