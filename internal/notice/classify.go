package notice

import "strings"

// classificationRules maps keyword sets to tags. Evaluated in slice
// order so multi-tag classifications always join in the same order.
var classificationRules = []struct {
	tag           string
	keywords      []string
	valueTriggers bool // tag also applies when the record carries a nonzero value
}{
	{
		tag:      "PRAZO",
		keywords: []string{"PRORROGA", "VIGÊNCIA", "PRAZO", "12 MESES", "DOZE MESES", "DILAÇÃO"},
	},
	{
		tag:           "VALOR",
		keywords:      []string{"ACRÉSCIMO", "REAJUSTE", "REALINHAMENTO", "SUPRESSÃO", "REPACTUAÇÃO", "VALOR GLOBAL"},
		valueTriggers: true,
	},
}

// Classify derives the classification tag for a notice from its subject
// text and monetary value. Returns "Outros" when no rule applies.
func Classify(subject string, value float64) string {
	upper := strings.ToUpper(subject)

	var tags []string
	for _, rule := range classificationRules {
		matched := rule.valueTriggers && value > 0
		if !matched {
			for _, kw := range rule.keywords {
				if strings.Contains(upper, kw) {
					matched = true
					break
				}
			}
		}
		if matched {
			tags = append(tags, rule.tag)
		}
	}

	if len(tags) == 0 {
		return "Outros"
	}
	return strings.Join(tags, " + ")
}
