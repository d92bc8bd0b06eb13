package evaluate

import (
	"math"
	"strings"
)

// normalize lowercases and collapses whitespace before token comparison
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func tokens(s string) []string {
	return strings.Fields(normalize(s))
}

// ExactMatch is case-insensitive string equality
func ExactMatch(prediction, groundTruth string) bool {
	return normalize(prediction) == normalize(groundTruth)
}

// F1 is the bag-of-tokens harmonic mean of precision and recall. Zero
// token overlap scores 0; the special case avoids dividing by zero when
// nothing matches.
func F1(prediction, groundTruth string) float64 {
	predTokens := tokens(prediction)
	truthTokens := tokens(groundTruth)

	if len(predTokens) == 0 || len(truthTokens) == 0 {
		if len(predTokens) == 0 && len(truthTokens) == 0 {
			return 1
		}
		return 0
	}

	counts := make(map[string]int, len(truthTokens))
	for _, token := range truthTokens {
		counts[token]++
	}

	numSame := 0
	for _, token := range predTokens {
		if counts[token] > 0 {
			counts[token]--
			numSame++
		}
	}

	if numSame == 0 {
		return 0
	}

	precision := float64(numSame) / float64(len(predTokens))
	recall := float64(numSame) / float64(len(truthTokens))
	return 2 * precision * recall / (precision + recall)
}

// bleuOrder is the highest n-gram order scored
const bleuOrder = 4

// BLEU is sentence-level BLEU with uniform quarter weights and no
// smoothing: any n-gram order with zero matches zeroes the whole score.
// That hard zero is the reference behavior and is preserved deliberately;
// short answers scoring 0 is expected, not a bug to smooth away.
func BLEU(prediction, groundTruth string) float64 {
	candidate := tokens(prediction)
	reference := tokens(groundTruth)

	if len(candidate) == 0 || len(reference) == 0 {
		return 0
	}

	logSum := 0.0
	for n := 1; n <= bleuOrder; n++ {
		p := modifiedPrecision(candidate, reference, n)
		if p == 0 {
			return 0
		}
		logSum += math.Log(p) / bleuOrder
	}

	// Brevity penalty
	bp := 1.0
	if len(candidate) < len(reference) {
		bp = math.Exp(1 - float64(len(reference))/float64(len(candidate)))
	}

	return bp * math.Exp(logSum)
}

// modifiedPrecision is clipped n-gram precision: each reference n-gram
// may only be matched as many times as it occurs in the reference
func modifiedPrecision(candidate, reference []string, n int) float64 {
	candGrams := ngrams(candidate, n)
	if len(candGrams) == 0 {
		return 0
	}

	refCounts := make(map[string]int)
	for _, gram := range ngrams(reference, n) {
		refCounts[gram]++
	}

	matches := 0
	for _, gram := range candGrams {
		if refCounts[gram] > 0 {
			refCounts[gram]--
			matches++
		}
	}

	return float64(matches) / float64(len(candGrams))
}

func ngrams(words []string, n int) []string {
	if len(words) < n {
		return nil
	}
	grams := make([]string, 0, len(words)-n+1)
	for i := 0; i+n <= len(words); i++ {
		grams = append(grams, strings.Join(words[i:i+n], "\x00"))
	}
	return grams
}
