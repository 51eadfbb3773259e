package solver

import "strings"

// topicRule ordnet Schlüsselwörter einem Themen-Label zu
type topicRule struct {
	topic    string
	keywords []string
}

// Die Reihenfolge ist eine feste Priorität: der erste Treffer gewinnt.
// "=" steht bewusst ganz vorne und schlägt alle anderen Regeln.
var topicRules = []topicRule{
	{"Algebra", []string{"="}},
	{"Trigonometry", []string{"sin", "cos", "tan", "cot"}},
	{"Calculus", []string{"derivative", "integral", "lim", "d/dx", "ableitung", "∫"}},
	{"Roots", []string{"sqrt", "√", "root", "wurzel"}},
	{"Percentages", []string{"%", "percent", "prozent"}},
	{"Matrices", []string{"matrix", "determinant", "matrizen"}},
}

// ClassifyTopic ordnet der Eingabe ein Themen-Label zu.
// Rein kosmetisch: das Label beeinflusst die Lösung nicht.
func ClassifyTopic(input string) string {
	lower := strings.ToLower(input)
	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.topic
			}
		}
	}
	return "General Mathematics"
}
