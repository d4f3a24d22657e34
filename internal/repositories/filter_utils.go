package repositories

import (
	"fmt"
	"strings"
)

// whereBuilder accumulates AND-ed conditions with numbered placeholders.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

func newWhere(cond string, args ...interface{}) *whereBuilder {
	w := &whereBuilder{}
	w.add(cond, args...)
	return w
}

// add appends cond, replacing each "?" with the next $n placeholder.
func (w *whereBuilder) add(cond string, args ...interface{}) {
	var b strings.Builder
	i := 0
	for _, ch := range cond {
		if ch == '?' && i < len(args) {
			w.args = append(w.args, args[i])
			fmt.Fprintf(&b, "$%d", len(w.args))
			i++
			continue
		}
		b.WriteRune(ch)
	}
	w.conds = append(w.conds, b.String())
}

func (w *whereBuilder) addIf(ok bool, cond string, args ...interface{}) {
	if ok {
		w.add(cond, args...)
	}
}

func (w *whereBuilder) sql() string {
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// next returns the placeholder for an argument appended after the conditions.
func (w *whereBuilder) next(arg interface{}) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
