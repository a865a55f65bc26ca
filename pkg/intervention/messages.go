package intervention

// LevelInfo describes one escalation step.
type LevelInfo struct {
	Level       int    `json:"level"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Intensity   string `json:"intensity"`
}

// PressureType names a psychological pressure category.
type PressureType string

const (
	PressureGuilt   PressureType = "guilt"
	PressureReality PressureType = "reality"
	PressureRegret  PressureType = "regret"
)

var levels = map[int]LevelInfo{
	1: {Level: 1, Name: "Gentle Warning", Description: "a light nudge while there is still hope", Icon: "😊", Intensity: "low"},
	2: {Level: 2, Name: "Firm Warning", Description: "a noticeably sharper tone", Icon: "😤", Intensity: "medium"},
	3: {Level: 3, Name: "Serious Mode", Description: "full-strength scolding to stop the purchase", Icon: "😡", Intensity: "high"},
	4: {Level: 4, Name: "Emergency", Description: "screen-lock grade forced intervention", Icon: "🚨", Intensity: "maximum"},
}

// defaultPrimaryMessages holds the built-in per-level message pools.
// Overridable via a MessageConfig file; each level keeps at least
// three messages by default.
var defaultPrimaryMessages = map[int][]string{
	1: {
		"Hold on a second~ do you really need this?",
		"Hmm, something about this feels off to me 💭",
		"How about sleeping on it first? ✨",
	},
	2: {
		"Hey, hey, this looks suspicious, doesn't it? 😤",
		"Do you seriously need it? Think it through! 💢",
		"This reeks of an impulse buy~ 😏",
	},
	3: {
		"What?! You're about to waste money AGAIN! 😡",
		"Enough already! 💢💢",
		"I'm guarding your wallet whether you like it or not! 👿",
	},
	4: {
		"🚨 EMERGENCY 🚨 You've completely lost it!",
		"I can't take this anymore! I'm stopping you by force! 💀",
		"Final warning! I will not let this one through! 👹",
	},
}

// defaultPressureMessages holds the built-in pressure pools per category.
var defaultPressureMessages = map[PressureType][]string{
	PressureGuilt: {
		"Wasting money again? 😔",
		"That last thing you bought... still unopened, right?",
		"Take a look at your account balance. Face reality. 💸",
	},
	PressureReality: {
		"Buy this and there goes the food budget... 🍜",
		"The trip fund just moved further away~ ✈️💸",
		"Will you still want this in three days? 🤔",
		"The same money buys something better, you know? 💡",
	},
	PressureRegret: {
		"I can already see you regretting this in a week 👀",
		"This has closet-filler written all over it 👗📦",
		"Straight to the resale app without ever being used, right? 📱",
		"I can picture the 'why did I buy this...' face already 😅",
	},
}

// pressureOrder fixes iteration order for deterministic selection.
var pressureOrder = []PressureType{PressureGuilt, PressureReality, PressureRegret}

// VisualEffects are rendering hints that scale with the level.
type VisualEffects struct {
	Shake     bool `json:"shake"`
	Darken    bool `json:"darken"`
	Blur      bool `json:"blur"`
	Emergency bool `json:"emergency"`
}

// RequiredAction is the confirmation policy the UI must enforce before
// letting the purchase proceed. The wait itself is UI-layer policy.
type RequiredAction struct {
	WaitSeconds         int  `json:"waitSeconds"`
	RequireConfirmation bool `json:"requireConfirmation"`
	RequireReason       bool `json:"requireReason"`
	RequireQuiz         bool `json:"requireQuiz"`
}

func visualEffectsFor(level int) VisualEffects {
	switch level {
	case 2:
		return VisualEffects{Shake: true}
	case 3:
		return VisualEffects{Shake: true, Darken: true}
	case 4:
		return VisualEffects{Shake: true, Darken: true, Blur: true, Emergency: true}
	default:
		return VisualEffects{}
	}
}

func requiredActionFor(level int) RequiredAction {
	switch level {
	case 2:
		return RequiredAction{WaitSeconds: 20, RequireConfirmation: true}
	case 3:
		return RequiredAction{WaitSeconds: 30, RequireConfirmation: true, RequireReason: true}
	case 4:
		return RequiredAction{WaitSeconds: 60, RequireConfirmation: true, RequireReason: true, RequireQuiz: true}
	default:
		return RequiredAction{WaitSeconds: 10}
	}
}
