// Package chatbot answers cooking questions with canned Markdown replies and
// limits how often each user may ask.
package chatbot

import (
	"fmt"
	"strings"
)

type rule struct {
	match func(msg string) bool
	reply func(msg string) string
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{
		match: func(m string) bool { return strings.Contains(m, "recipe") && containsAny(m, "make", "how", "create") },
		reply: recipeReply,
	},
	{
		match: func(m string) bool { return strings.Contains(m, "how") && containsAny(m, "cook", "bake", "grill") },
		reply: techniqueReply,
	},
	{
		match: func(m string) bool {
			return strings.Contains(m, "substitute") || (strings.Contains(m, "replace") && strings.Contains(m, "ingredient"))
		},
		reply: constant(substitutionsReply),
	},
	{
		match: func(m string) bool { return containsAny(m, "nutrition", "healthy", "calories") },
		reply: constant(nutritionReply),
	},
	{
		match: func(m string) bool { return containsAny(m, "tips", "advice") },
		reply: constant(tipsReply),
	},
}

// Reply picks the canned answer for message. Matching is case-insensitive;
// the fallback quotes the original message.
func Reply(message string) string {
	lower := strings.ToLower(message)
	for _, r := range rules {
		if r.match(lower) {
			return r.reply(lower)
		}
	}
	return fmt.Sprintf(fallbackReply, message)
}

func recipeReply(m string) string {
	switch {
	case containsAny(m, "pasta", "spaghetti"):
		return bologneseReply
	case strings.Contains(m, "chicken"):
		return roastChickenReply
	case containsAny(m, "vegetarian", "vegan"):
		return vegetableCurryReply
	}
	return recipeQuestionsReply
}

func techniqueReply(m string) string {
	switch {
	case strings.Contains(m, "steak"):
		return steakReply
	case strings.Contains(m, "rice"):
		return riceReply
	}
	return techniqueQuestionsReply
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func constant(s string) func(string) string {
	return func(string) string { return s }
}
