// Package assistant implements the wellness chat assistant: an LLM-backed
// responder with a canned keyword fallback so the endpoint works without an
// API key.
package assistant

import "strings"

// cannedRule maps trigger keywords to a response. Rules are checked in
// order; the first match wins.
type cannedRule struct {
	keywords []string
	response string
}

var cannedRules = []cannedRule{
	{
		keywords: []string{"căng thẳng", "stress"},
		response: "To reduce stress, you can try:\n\n" +
			"1. Deep breathing: inhale for 4 seconds, hold for 4, exhale for 4\n" +
			"2. Meditate for 10-15 minutes a day\n" +
			"3. Gentle exercise like walking or yoga\n" +
			"4. Listen to calming music\n" +
			"5. Keep a feelings journal\n\n" +
			"Remember that taking care of yourself matters!",
	},
	{
		keywords: []string{"lo âu", "anxiety", "lo lắng", "anxious"},
		response: "I hear that you are feeling anxious. These may help:\n\n" +
			"1. The 5-4-3-2-1 technique: name 5 things you see, 4 you can touch, 3 you hear, 2 you smell, 1 you taste\n" +
			"2. Write down what is worrying you\n" +
			"3. Talk to someone you trust\n" +
			"4. Focus on the present instead of the future\n" +
			"5. Try yoga or meditation\n\n" +
			"If the anxiety persists, please reach out to a professional!",
	},
	{
		keywords: []string{"giấc ngủ", "ngủ", "sleep"},
		response: "To improve your sleep, try:\n\n" +
			"1. Go to bed and wake up at the same time every day\n" +
			"2. Avoid caffeine after 2pm\n" +
			"3. Put your phone away an hour before bed\n" +
			"4. Keep the bedroom dark, cool and comfortable\n" +
			"5. Read or listen to soft music before sleeping\n" +
			"6. Avoid heavy meals late in the evening\n\n" +
			"Good sleep is the foundation of mental health!",
	},
	{
		keywords: []string{"thở", "hơi thở", "breath", "breathing"},
		response: "A simple deep-breathing exercise:\n\n" +
			"1. Sit comfortably with a straight back\n" +
			"2. Place one hand on your chest, one on your belly\n" +
			"3. Inhale slowly through the nose for 4 seconds\n" +
			"4. Hold for 4 seconds\n" +
			"5. Exhale slowly through the mouth for 6 seconds\n" +
			"6. Repeat 5-10 times\n\n" +
			"Daily practice will help you feel calmer!",
	},
	{
		keywords: []string{"thiền", "meditation", "meditate"},
		response: "Basic meditation guide:\n\n" +
			"1. Find a quiet place\n" +
			"2. Sit comfortably, cross-legged if you like\n" +
			"3. Close your eyes gently\n" +
			"4. Focus on your breath\n" +
			"5. When your mind wanders, gently bring it back to the breath\n" +
			"6. Start with 5-10 minutes and build up\n\n" +
			"Regular meditation reduces stress and improves focus!",
	},
}

const cannedDefault = "Thank you for sharing. I am here to listen and support you. " +
	"Some topics I can help with:\n\n" +
	"• Managing stress\n" +
	"• Easing anxiety\n" +
	"• Improving sleep\n" +
	"• Breathing and meditation techniques\n" +
	"• Building positive habits\n\n" +
	"Which topic would you like to explore?"

// CannedReply matches the message against the keyword rules and returns
// the canned response. Matching is case-insensitive substring search; an
// unmatched message gets the topic menu.
func CannedReply(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range cannedRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.response
			}
		}
	}
	return cannedDefault
}
