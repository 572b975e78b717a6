package analysis

import (
	"math"
	"strings"

	"grievance/backend/internal/models"
)

// categoryKeywords is checked in this order; ties go to the earlier category.
var categoryKeywords = []struct {
	Category models.Category
	Keywords []string
}{
	{models.CategoryMunicipal, []string{"road", "street", "pothole", "garbage", "waste", "drainage", "sewage", "streetlight", "park", "municipal", "city", "urban", "sidewalk", "traffic light", "public toilet", "public space"}},
	{models.CategoryHealthcare, []string{"hospital", "clinic", "doctor", "medicine", "health", "medical", "treatment", "patient", "ambulance", "pharmacy", "nurse", "healthcare", "health care", "heart", "stroke", "cardiac", "emergency", "surgery", "disease", "illness", "symptom", "diagnosis", "prescription", "medication", "therapy", "vaccine", "covid", "coronavirus", "fever", "pain", "injury", "wound", "blood", "cancer", "diabetes", "hypertension", "asthma", "infection", "virus", "bacteria"}},
	{models.CategoryEducation, []string{"school", "college", "university", "teacher", "student", "education", "exam", "admission", "curriculum", "tuition", "scholarship", "textbook", "library", "classroom", "principal", "faculty"}},
	{models.CategoryTransport, []string{"bus", "train", "metro", "traffic", "parking", "vehicle", "transport", "road", "highway", "public transport", "taxi", "cab", "subway", "tram", "bike", "bicycle", "lane"}},
	{models.CategoryUtilities, []string{"electricity", "water", "power", "gas", "internet", "phone", "utility", "bill", "connection", "electric", "plumbing", "heating", "cooling", "ac", "air conditioning", "sewer", "cable"}},
}

var (
	negativeKeywords = []string{"bad", "terrible", "awful", "horrible", "worst", "disappointed",
		"frustrated", "angry", "urgent", "emergency", "critical", "broken",
		"failed", "not working", "problem", "issue", "complaint"}
	positiveKeywords = []string{"good", "great", "excellent", "satisfied", "happy", "thank", "appreciate"}
	criticalKeywords = []string{"urgent", "emergency", "critical", "immediate", "asap",
		"dangerous", "safety", "accident", "fire", "flood"}
)

// Analyze labels a complaint with the keyword rules. Matching is by substring
// on the lower-cased "title description" text.
func Analyze(title, description string) models.Analysis {
	text := strings.ToLower(strings.TrimSpace(title + " " + description))

	category, confidence := classifyCategory(text)
	sentiment := classifySentiment(text)
	return models.Analysis{
		Category:   category,
		Sentiment:  sentiment,
		Priority:   classifyPriority(text, sentiment),
		Confidence: math.Round(confidence*100) / 100,
	}
}

func classifyCategory(text string) (models.Category, float64) {
	if text == "" {
		return models.CategoryOther, 0.5
	}

	best, bestScore := models.CategoryOther, 0
	for _, ck := range categoryKeywords {
		if score := countMatches(text, ck.Keywords); score > bestScore {
			best, bestScore = ck.Category, score
		}
	}

	switch {
	case bestScore >= 2:
		return best, math.Min(float64(bestScore)/5.0, 1.0)
	case bestScore == 1:
		return best, math.Min(float64(bestScore)/3.0, 0.7)
	default:
		return models.CategoryOther, 0.5
	}
}

func classifySentiment(text string) models.Sentiment {
	negative := countMatches(text, negativeKeywords)
	positive := countMatches(text, positiveKeywords)

	switch {
	case negative > positive && negative > 2:
		return models.SentimentNegative
	case positive > negative:
		return models.SentimentPositive
	default:
		return models.SentimentNeutral
	}
}

func classifyPriority(text string, sentiment models.Sentiment) models.Priority {
	if countMatches(text, criticalKeywords) > 0 {
		return models.PriorityCritical
	}
	switch sentiment {
	case models.SentimentNegative:
		return models.PriorityHigh
	case models.SentimentNeutral:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

func countMatches(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
