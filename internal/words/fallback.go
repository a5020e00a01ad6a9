// internal/words/fallback.go
package words

import "strings"

// anchorCandidates are per-difficulty anchors tried against the live
// source. Rough frequency tiers: common words are easy, rarer words hard.
func anchorCandidates(difficulty string) []string {
	var src []string
	switch strings.ToUpper(difficulty) {
	case "EASY":
		src = easyAnchors
	case "HARD":
		src = hardAnchors
	default:
		src = mediumAnchors
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

var easyAnchors = []string{
	"happy", "big", "fast", "cold", "bright", "quiet", "strong", "clean",
	"brave", "early", "hard", "rich", "sharp", "smooth", "wide",
}

var mediumAnchors = []string{
	"abundant", "hostile", "genuine", "fragile", "vivid", "reluctant",
	"diligent", "obscure", "tranquil", "flexible", "prudent", "scarce",
	"candid", "robust", "vague",
}

var hardAnchors = []string{
	"ephemeral", "gregarious", "laconic", "magnanimous", "obstinate",
	"pervasive", "quiescent", "recalcitrant", "sagacious", "taciturn",
	"ubiquitous", "venerable", "zealous", "ameliorate", "capricious",
}

// fallbackSets returns the static pool used when the live source and cache
// both fail. Every set carries at least five of each so any level's pair
// count can be satisfied.
func fallbackSets(difficulty string) []WordSet {
	switch strings.ToUpper(difficulty) {
	case "EASY":
		return easyFallback
	case "HARD":
		return hardFallback
	default:
		return mediumFallback
	}
}

var easyFallback = []WordSet{
	{
		Anchor:   "happy",
		Synonyms: []string{"glad", "joyful", "cheerful", "content", "merry", "pleased"},
		Antonyms: []string{"sad", "unhappy", "miserable", "gloomy", "sorrowful", "dejected"},
	},
	{
		Anchor:   "big",
		Synonyms: []string{"large", "huge", "enormous", "giant", "massive", "vast"},
		Antonyms: []string{"small", "tiny", "little", "miniature", "petite", "minute"},
	},
	{
		Anchor:   "fast",
		Synonyms: []string{"quick", "rapid", "swift", "speedy", "brisk", "hasty"},
		Antonyms: []string{"slow", "sluggish", "leisurely", "unhurried", "plodding", "gradual"},
	},
	{
		Anchor:   "bright",
		Synonyms: []string{"brilliant", "radiant", "luminous", "shining", "vivid", "gleaming"},
		Antonyms: []string{"dark", "dim", "dull", "gloomy", "murky", "shadowy"},
	},
}

var mediumFallback = []WordSet{
	{
		Anchor:   "abundant",
		Synonyms: []string{"plentiful", "ample", "copious", "profuse", "bountiful", "rich"},
		Antonyms: []string{"scarce", "sparse", "meager", "insufficient", "rare", "lacking"},
	},
	{
		Anchor:   "hostile",
		Synonyms: []string{"antagonistic", "aggressive", "unfriendly", "adversarial", "belligerent", "combative"},
		Antonyms: []string{"friendly", "amiable", "cordial", "welcoming", "warm", "agreeable"},
	},
	{
		Anchor:   "genuine",
		Synonyms: []string{"authentic", "real", "sincere", "true", "legitimate", "honest"},
		Antonyms: []string{"fake", "counterfeit", "false", "insincere", "artificial", "bogus"},
	},
	{
		Anchor:   "tranquil",
		Synonyms: []string{"calm", "peaceful", "serene", "placid", "quiet", "still"},
		Antonyms: []string{"turbulent", "agitated", "chaotic", "restless", "stormy", "frantic"},
	},
}

var hardFallback = []WordSet{
	{
		Anchor:   "ephemeral",
		Synonyms: []string{"fleeting", "transient", "momentary", "brief", "transitory", "evanescent"},
		Antonyms: []string{"permanent", "enduring", "lasting", "eternal", "perpetual", "everlasting"},
	},
	{
		Anchor:   "magnanimous",
		Synonyms: []string{"generous", "charitable", "benevolent", "noble", "bighearted", "forgiving"},
		Antonyms: []string{"petty", "selfish", "spiteful", "mean", "vindictive", "stingy"},
	},
	{
		Anchor:   "obstinate",
		Synonyms: []string{"stubborn", "headstrong", "inflexible", "intransigent", "unyielding", "willful"},
		Antonyms: []string{"compliant", "amenable", "flexible", "yielding", "docile", "obedient"},
	},
	{
		Anchor:   "taciturn",
		Synonyms: []string{"reticent", "reserved", "uncommunicative", "silent", "withdrawn", "tightlipped"},
		Antonyms: []string{"talkative", "loquacious", "garrulous", "chatty", "voluble", "effusive"},
	},
}
