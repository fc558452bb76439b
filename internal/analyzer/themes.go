package analyzer

// Dream theme categories used for summaries and perspective selection.
var dreamThemes = []struct {
	Name     string
	Keywords map[string]struct{}
}{
	{"Chase Dreams", wordSet("chase", "run", "escape", "hide", "pursue", "follow")},
	{"Falling Dreams", wordSet("fall", "falling", "drop", "plummet", "descend")},
	{"Flying Dreams", wordSet("fly", "flying", "float", "soar", "levitate", "hover")},
	{"Water-related Dreams", wordSet("water", "ocean", "river", "swim", "sea", "beach", "lake", "drown", "dive", "boat")},
	{"Lost Dreams", wordSet("maze", "lost", "find", "search", "path", "way", "direction", "confused")},
	{"Animal Dreams", wordSet("animal", "cat", "dog", "snake", "bird", "wolf", "horse", "bear", "fox", "lion", "tiger")},
	{"Transformation Dreams", wordSet("change", "transform", "become", "shift", "evolve", "morph", "different")},
	{"Journey Dreams", wordSet("journey", "travel", "path", "road", "destination", "trip", "adventure", "quest")},
}

var (
	chaseWords   = wordSet("chase", "run", "escape", "hide", "pursue")
	waterWords   = wordSet("water", "ocean", "river", "swim", "sea", "lake", "beach")
	flyingWords  = wordSet("fly", "flying", "float", "soar", "levitate")
	fallingWords = wordSet("fall", "falling", "drop", "plummet")
)

const (
	chasePerspective   = "Your dream contains themes of pursuit or escape. From a psychological perspective, this often represents avoiding an issue or emotion in waking life. The pursuer may symbolize an aspect of yourself or a situation you're reluctant to face. Consider what you might be avoiding and why it feels threatening."
	waterPerspective   = "Water in dreams often symbolizes emotions and the unconscious mind. The state of the water (calm, turbulent, etc.) may reflect your emotional state. From a Jungian perspective, water represents the depths of the psyche. Your dream suggests you may be processing deep emotions or exploring aspects of your unconscious mind."
	flyingPerspective  = "Flying dreams often represent freedom, transcendence, or a desire to escape limitations. From a psychological perspective, they may indicate a period of personal growth or a wish to rise above current challenges. Consider what areas of your life might benefit from a broader perspective or where you feel constrained."
	fallingPerspective = "Dreams of falling often relate to feelings of insecurity, anxiety, or loss of control. Psychologically, they may reflect a situation where you feel unsupported or overwhelmed. Consider areas in your life where you might need more stability or support."
)

var generalPerspectives = []string{
	"From a Jungian perspective, this dream may reflect aspects of your collective unconscious and the archetypes that influence your psyche. Consider how these symbols connect to universal human experiences.",
	"In Freudian analysis, dreams often represent unconscious desires and repressed thoughts. The symbols in your dream might be disguised expressions of deeper wishes or conflicts.",
	"Cognitive psychology suggests dreams help process emotions and consolidate memories. Your dream may be your mind's way of working through recent experiences or emotions.",
	"From an existential perspective, this dream might reflect your search for meaning and authenticity. Consider how the elements relate to your life's purpose and choices.",
	"Gestalt psychology would view the different elements of your dream as parts of your personality or life experience. Try to integrate these parts to understand the whole message.",
	"Neurologically, dreams occur during REM sleep when the brain processes information and emotions. The symbols may represent neural connections being formed between different memories and feelings.",
}

var additionalInsights = []string{
	"Dreams often serve as a bridge between our conscious and unconscious mind, revealing aspects of ourselves we may not be fully aware of in waking life.",
	"The emotional tone of your dream may be as significant as the content itself. Consider how you felt during and after the dream.",
	"Recurring elements in dreams often point to unresolved issues or important themes in your life that deserve attention.",
	"Your dream may be processing recent experiences, preparing you for future challenges, or integrating aspects of your personality.",
}

func wordSet(items ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func intersects(set map[string]struct{}, wordSet map[string]struct{}) bool {
	for w := range wordSet {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

// themedPerspective returns the perspective for the first matching theme, or
// "" when the dream hits none of the themed word sets.
func themedPerspective(wordSet map[string]struct{}) string {
	switch {
	case intersects(chaseWords, wordSet):
		return chasePerspective
	case intersects(waterWords, wordSet):
		return waterPerspective
	case intersects(flyingWords, wordSet):
		return flyingPerspective
	case intersects(fallingWords, wordSet):
		return fallingPerspective
	}
	return ""
}
