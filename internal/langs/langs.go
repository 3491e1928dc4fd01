// Package langs holds the static language registry for the triage service:
// supported language codes, native names, and the pre-translated legal
// disclaimers and greetings that must accompany every agent response.
package langs

// Pivot is the canonical language used internally by the generation
// collaborator regardless of the user's language.
const Pivot = "en"

// Language describes one supported language.
type Language struct {
	Code         string `json:"code"`
	NameEnglish  string `json:"name_english"`
	NameNative   string `json:"name_native"`
	HighPriority bool   `json:"high_priority"`
}

// languages is the registry of Scheduled Languages of India carried by the
// service, plus English. Order is by approximate speaker count.
var languages = []Language{
	{Code: "hi", NameEnglish: "Hindi", NameNative: "हिन्दी", HighPriority: true},
	{Code: "bn", NameEnglish: "Bengali", NameNative: "বাংলা", HighPriority: true},
	{Code: "en", NameEnglish: "English", NameNative: "English", HighPriority: true},
	{Code: "te", NameEnglish: "Telugu", NameNative: "తెలుగు", HighPriority: true},
	{Code: "mr", NameEnglish: "Marathi", NameNative: "मराठी", HighPriority: true},
	{Code: "ta", NameEnglish: "Tamil", NameNative: "தமிழ்", HighPriority: true},
	{Code: "ur", NameEnglish: "Urdu", NameNative: "اردو", HighPriority: true},
	{Code: "gu", NameEnglish: "Gujarati", NameNative: "ગુજરાતી", HighPriority: true},
	{Code: "kn", NameEnglish: "Kannada", NameNative: "ಕನ್ನಡ", HighPriority: true},
	{Code: "ml", NameEnglish: "Malayalam", NameNative: "മലയാളം", HighPriority: true},
	{Code: "or", NameEnglish: "Odia", NameNative: "ଓଡ଼ିଆ", HighPriority: false},
	{Code: "pa", NameEnglish: "Punjabi", NameNative: "ਪੰਜਾਬੀ", HighPriority: false},
	{Code: "as", NameEnglish: "Assamese", NameNative: "অসমীয়া", HighPriority: false},
	{Code: "ne", NameEnglish: "Nepali", NameNative: "नेपाली", HighPriority: false},
	{Code: "mai", NameEnglish: "Maithili", NameNative: "मैथिली", HighPriority: false},
	{Code: "sat", NameEnglish: "Santali", NameNative: "ᱥᱟᱱᱛᱟᱲᱤ", HighPriority: false},
	{Code: "ks", NameEnglish: "Kashmiri", NameNative: "कॉशुर", HighPriority: false},
	{Code: "sd", NameEnglish: "Sindhi", NameNative: "سنڌي", HighPriority: false},
	{Code: "kok", NameEnglish: "Konkani", NameNative: "कोंकणी", HighPriority: false},
	{Code: "doi", NameEnglish: "Dogri", NameNative: "डोगरी", HighPriority: false},
	{Code: "mni", NameEnglish: "Manipuri", NameNative: "ꯃꯤꯇꯩꯂꯣꯟ", HighPriority: false},
	{Code: "brx", NameEnglish: "Bodo", NameNative: "बड़ो", HighPriority: false},
	{Code: "sa", NameEnglish: "Sanskrit", NameNative: "संस्कृतम्", HighPriority: false},
}

var byCode = func() map[string]Language {
	m := make(map[string]Language, len(languages))
	for _, l := range languages {
		m[l.Code] = l
	}
	return m
}()

// Supported reports whether code is a language the service accepts.
func Supported(code string) bool {
	_, ok := byCode[code]
	return ok
}

// All returns the registry in priority order.
func All() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// DisclaimerEN is the canonical (pivot-language) legal disclaimer. Every
// agent response carries a disclaimer; this text is the final fallback.
const DisclaimerEN = "DISCLAIMER: This information is for educational and awareness purposes only. " +
	"This is NOT legal advice. For legal counsel, please contact your nearest " +
	"District Legal Services Authority (DLSA) or call the Tele-Law helpline " +
	"at 1516. Free legal aid is available under the Legal Services Authorities " +
	"Act, 1987 for eligible citizens."

const disclaimerHI = "अस्वीकरण: यह जानकारी केवल शैक्षिक और जागरूकता उद्देश्यों के लिए है। " +
	"यह कानूनी सलाह नहीं है। कानूनी परामर्श के लिए अपने निकटतम जिला " +
	"विधिक सेवा प्राधिकरण (DLSA) से संपर्क करें या टेली-लॉ हेल्पलाइन " +
	"1516 पर कॉल करें।"

// disclaimers holds the pre-translated disclaimers. Languages not listed
// here fall back to runtime translation of DisclaimerEN, then to
// DisclaimerEN itself.
var disclaimers = map[string]string{
	"en": DisclaimerEN,
	"hi": disclaimerHI,
}

// Disclaimer returns the pre-translated disclaimer for code, if one exists.
func Disclaimer(code string) (string, bool) {
	d, ok := disclaimers[code]
	return d, ok
}

var greetings = map[string]string{
	"hi": "नमस्ते! मैं हक़सेतु हूँ। आप अपनी समस्या बताइए, मैं आपको बताऊँगा " +
		"कि कौन से कानून और सरकारी योजनाएं आपकी मदद कर सकती हैं। " +
		"कृपया ध्यान दें -- यह कानूनी सलाह नहीं है।",
	"en": "Hello! I am HaqSetu. Please describe your problem and I will help " +
		"identify which laws and government schemes may be relevant to your " +
		"situation. Please note -- this is not legal advice.",
}

// Greeting returns the session-start greeting for code, falling back to
// the pivot-language greeting.
func Greeting(code string) string {
	if g, ok := greetings[code]; ok {
		return g
	}
	return greetings[Pivot]
}
