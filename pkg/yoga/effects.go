package yoga

var effects = map[string]string{
	"Ruchaka Yoga":     "Courageous, commander-like qualities, athletic build, leadership",
	"Bhadra Yoga":      "Intelligent, good communication, scholarly, blessed with wealth",
	"Hamsa Yoga":       "Spiritual, righteous, beautiful appearance, respected by all",
	"Malavya Yoga":     "Luxurious life, artistic talents, attractive, wealthy",
	"Sasa Yoga":        "Disciplined, authoritative, long life, political success",
	"Dhana Yoga":       "Wealth, prosperity, financial gains",
	"Sunafa Yoga":      "Self-earned wealth, intelligent, good reputation",
	"Anafa Yoga":       "Well-mannered, charitable, spiritual inclination",
	"Durudhara Yoga":   "Wealthy, charitable, famous, enjoys all comforts",
	"Kemadruma Yoga":   "Struggles in life, poverty, obstacles (can be cancelled by other factors)",
	"Gaja Kesari Yoga": "Wisdom, wealth, fame, respected like an elephant",
	"Rajju Yoga":       "Always traveling, unstable life but gains through travel",
	"Musala Yoga":      "Stable, determined, proud, prosperous",
	"Nala Yoga":        "Intelligent, skilled in many arts, adaptable",
}

var rajaEffects = map[string]string{
	ConnectionConjunction: "Power, authority, success, high position in life",
	ConnectionParivartana: "Mutual strengthening, power, destiny connection",
	ConnectionAspect:      "Public success, partnership strength",
}

// Effects returns the fixed description for a yoga name.
func Effects(name string) string { return effects[name] }
