package repository

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern превращает поисковую строку в шаблон ILIKE для подстроки.
// Символы % и _ в term ищутся буквально.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// searchCondition строит условие "name ILIKE p OR location ILIKE p".
// Пустой после обрезки term означает выборку без фильтра.
func searchCondition(term string) (exp.Expression, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, false
	}
	p := containsPattern(term)
	return goqu.Or(
		goqu.C("name").ILike(p),
		goqu.C("location").ILike(p),
	), true
}
