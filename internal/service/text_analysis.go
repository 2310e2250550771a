package service

import (
	"sort"
	"strings"

	"surveylyze_backend/internal/model"
)

const DefaultKeywordLimit = 15

var likertLabels = [...]string{
	"Strongly Disagree",
	"Disagree",
	"Neutral",
	"Agree",
	"Strongly Agree",
}

var positiveWords = wordSet(
	"good", "great", "excellent", "helpful", "useful", "clear", "interesting",
	"enjoy", "enjoyed", "fun", "love", "loved", "like", "liked", "amazing",
	"awesome", "engaging", "informative", "easy", "nice", "best", "happy",
	"satisfied", "effective", "organized", "fantastic", "wonderful",
)

var negativeWords = wordSet(
	"bad", "poor", "terrible", "boring", "confusing", "difficult", "hard",
	"useless", "hate", "hated", "dislike", "disliked", "awful", "worst",
	"unclear", "slow", "frustrating", "disorganized", "unhelpful", "waste",
	"annoying", "stressful", "tired", "horrible", "disappointing",
)

var stopWords = wordSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
	"had", "her", "was", "one", "our", "out", "has", "have", "him", "his",
	"how", "its", "may", "new", "now", "old", "see", "two", "way", "who",
	"did", "get", "let", "she", "too", "use", "this", "that", "with", "they",
	"from", "were", "been", "them", "then", "than", "there", "their", "what",
	"when", "where", "which", "while", "will", "would", "could", "should",
	"about", "into", "more", "some", "such", "very", "also", "just", "only",
	"your", "yours", "mine", "because", "being", "does", "doing", "each",
	"here", "over", "same", "other", "these", "those", "through", "under",
	"until", "again", "after", "before", "both", "most", "much", "own",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// tokenize lowercases text and splits it into runs of ASCII letters. Any
// other character, including non-ASCII letters, separates tokens.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	var tokens []string
	start := -1
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'a' && c <= 'z' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, text[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, text[start:])
	}
	return tokens
}

type sentiment int

const (
	sentimentNeutral sentiment = iota
	sentimentPositive
	sentimentNegative
)

// classify marks a response positive when it has at least one positive word
// and no negative one, negative symmetrically, neutral otherwise.
func classify(text string) sentiment {
	var pos, neg bool
	for _, tok := range tokenize(text) {
		if _, ok := positiveWords[tok]; ok {
			pos = true
		}
		if _, ok := negativeWords[tok]; ok {
			neg = true
		}
	}
	switch {
	case pos && !neg:
		return sentimentPositive
	case neg && !pos:
		return sentimentNegative
	}
	return sentimentNeutral
}

func tallySentiment(texts []string) *model.SentimentTally {
	t := &model.SentimentTally{}
	for _, text := range texts {
		switch classify(text) {
		case sentimentPositive:
			t.Positive++
		case sentimentNegative:
			t.Negative++
		default:
			t.Neutral++
		}
	}
	return t
}

// topKeywords counts tokens of three or more letters that are not stop words
// and returns the limit most frequent. Equal counts keep the order in which
// the words were first seen.
func topKeywords(texts []string, limit int) []model.KeywordCount {
	counts := make(map[string]int)
	var order []string
	for _, text := range texts {
		for _, tok := range tokenize(text) {
			if len(tok) < 3 {
				continue
			}
			if _, ok := stopWords[tok]; ok {
				continue
			}
			if counts[tok] == 0 {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}

	keywords := make([]model.KeywordCount, 0, len(order))
	for _, w := range order {
		keywords = append(keywords, model.KeywordCount{Word: w, Count: counts[w]})
	}
	return keywords
}
