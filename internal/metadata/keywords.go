// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"regexp"
	"sort"
	"strings"
)

// wordPattern matches alphabetic runs of three or more characters.
var wordPattern = regexp.MustCompile(`[a-zA-Z]{3,}`)

// stopWords are excluded from keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "from": {}, "up": {},
	"about": {}, "into": {}, "through": {}, "during": {}, "before": {},
	"after": {}, "above": {}, "below": {}, "between": {}, "among": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "i": {}, "you": {},
	"he": {}, "she": {}, "it": {}, "we": {}, "they": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "be": {}, "been": {}, "being": {}, "have": {},
	"has": {}, "had": {}, "do": {}, "does": {}, "did": {}, "will": {},
	"would": {}, "could": {}, "should": {}, "may": {}, "might": {},
	"must": {}, "can": {}, "shall": {}, "a": {}, "an": {}, "some": {},
	"any": {}, "all": {}, "both": {}, "each": {}, "every": {}, "no": {},
	"not": {}, "only": {}, "also": {}, "just": {}, "even": {}, "still": {},
	"yet": {}, "already": {}, "here": {}, "there": {}, "where": {},
	"when": {}, "why": {}, "how": {}, "what": {}, "which": {}, "who": {},
	"whom": {}, "whose": {},
}

// ExtractKeywords returns up to max keywords from text by simple frequency
// analysis: lower-cased alphabetic runs of length >= 3, stop words removed,
// ordered by descending frequency. The sort is stable so equally frequent
// words keep their relative order.
func ExtractKeywords(text string, max int) []string {
	if text == "" || max <= 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopWords[word]; stop {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > max {
		order = order[:max]
	}
	return order
}
