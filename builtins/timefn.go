package builtins

import (
	"strings"
	"time"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/value"
)

// registerTime registers the timestamp family. now() is intentionally
// non-deterministic so the optimizer never constant-folds it; everything
// else here operates on an explicit numeric or string argument and is pure.
func registerTime() {
	register(&exec.BuiltinEntry{
		Name: "now", MinArity: 0, MaxArity: 0, Deterministic: false,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			return value.Int(nowFunc().Unix()), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "to_unix_timestamp", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			if !v.IsString() {
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[0].Span(), "to_unix_timestamp: expected a string, got %s", v.TypeName())
			}
			t, err := parseTimestamp(v.AsString())
			if err != nil {
				return value.Null, kerrors.NewAt(kerrors.TimestampError, args[0].Span(), "to_unix_timestamp: %s", err.Error())
			}
			return value.Int(t.Unix()), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "format_timestamp", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			tv, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			if !tv.IsNumber() {
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[0].Span(), "format_timestamp: expected a unix timestamp number, got %s", tv.TypeName())
			}
			layoutV, err := ev.Eval(args[1])
			if err != nil {
				return value.Null, err
			}
			if !layoutV.IsString() {
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[1].Span(), "format_timestamp: expected a layout string, got %s", layoutV.TypeName())
			}
			layout, err := translateLayout(layoutV.AsString())
			if err != nil {
				return value.Null, kerrors.NewAt(kerrors.TimestampError, args[1].Span(), "format_timestamp: %s", err.Error())
			}
			sec := int64(tv.Float64())
			t := time.Unix(sec, 0).UTC()
			return value.String(t.Format(layout)), nil
		},
	})
}

// nowFunc is the clock that now() reads; it is time.Now.
var nowFunc = time.Now

// parseTimestamp tries a small set of common layouts, RFC3339 first.
func parseTimestamp(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// translateLayout rewrites a small set of strftime-style directives (the
// original pattern language's format tokens) into Go's reference-time
// layout, since Go has no strftime in the standard library.
func translateLayout(fmtStr string) (string, error) {
	replacer := strings.NewReplacer(
		"%Y", "2006",
		"%m", "01",
		"%d", "02",
		"%H", "15",
		"%M", "04",
		"%S", "05",
		"%z", "-0700",
		"%Z", "MST",
	)
	return replacer.Replace(fmtStr), nil
}
