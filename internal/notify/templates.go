package notify

import (
	"strings"
	"unicode"

	"github.com/crisisradar/crisisradar/internal/models"
)

// messageTemplates holds per-language SMS bodies keyed by ISO 639-1
// code. Languages without a template fall back to English.
type messageTemplates struct {
	crisisAlert  string
	weatherAlert string
	welcome      string
}

var templates = map[string]messageTemplates{
	"en": {
		crisisAlert:  "CRISIS ALERT: {crisis_type} detected in {location}. Severity: {severity}. Stay safe and follow local authorities' instructions. - CrisisRadar",
		weatherAlert: "WEATHER ALERT: {weather_type} in {location}. {description}. Take necessary precautions. - CrisisRadar",
		welcome:      "Welcome to CrisisRadar! You'll receive real-time crisis alerts for your area. Reply STOP to unsubscribe.",
	},
	"hi": {
		crisisAlert:  "संकट चेतावनी: {location} में {crisis_type} का पता चला। गंभीरता: {severity}। सुरक्षित रहें और स्थानीय अधिकारियों के निर्देशों का पालन करें। - CrisisRadar",
		weatherAlert: "मौसम चेतावनी: {location} में {weather_type}। {description}। आवश्यक सावधानी बरतें। - CrisisRadar",
		welcome:      "CrisisRadar में आपका स्वागत है! आपको अपने क्षेत्र के लिए रीयल-टाइम संकट अलर्ट प्राप्त होंगे। सदस्यता रद्द करने के लिए STOP का जवाब दें।",
	},
	"bn": {
		crisisAlert:  "সংকট সতর্কতা: {location} এ {crisis_type} সনাক্ত হয়েছে। তীব্রতা: {severity}। নিরাপদ থাকুন এবং স্থানীয় কর্তৃপক্ষের নির্দেশাবলী অনুসরণ করুন। - CrisisRadar",
		weatherAlert: "আবহাওয়া সতর্কতা: {location} এ {weather_type}। {description}। প্রয়োজনীয় সতর্কতা অবলম্বন করুন। - CrisisRadar",
		welcome:      "CrisisRadar এ আপনাকে স্বাগতম! আপনি আপনার এলাকার জন্য রিয়েল-টাইম সংকট সতর্কতা পাবেন। সদস্যতা বাতিল করতে STOP উত্তর দিন।",
	},
	"ta": {
		crisisAlert:  "நெருக்கடி எச்சரிக்கை: {location} இல் {crisis_type} கண்டறியப்பட்டது। தீவிரம்: {severity}। பாதுகாப்பாக இருங்கள் மற்றும் உள்ளூர் அதிகாரிகளின் அறிவுரைகளை பின்பற்றுங்கள். - CrisisRadar",
		weatherAlert: "வானிலை எச்சரிக்கை: {location} இல் {weather_type}। {description}। தேவையான முன்னெச்சரிக்கை நடவடிக்கைகளை எடுங்கள். - CrisisRadar",
		welcome:      "CrisisRadar இல் வரவேற்கிறோம்! உங்கள் பகுதிக்கான நேரடி நெருக்கடி எச்சரிக்கைகளை நீங்கள் பெறுவீர்கள். சந்தாவை ரத்து செய்ய STOP என்று பதிலளிக்கவும்।",
	},
}

func templatesFor(lang string) messageTemplates {
	if t, ok := templates[lang]; ok {
		return t
	}
	return templates["en"]
}

func fill(template string, vars map[string]string) string {
	out := template
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}

// RenderCrisisMessage builds the SMS body for a crisis event in the
// subscriber's language.
func RenderCrisisMessage(event models.CrisisEvent, lang string) string {
	location := event.Location
	if location == "" {
		location = "your area"
	}
	return fill(templatesFor(lang).crisisAlert, map[string]string{
		"crisis_type": strings.ToUpper(string(event.CrisisType)),
		"location":    titleCase(location),
		"severity":    strings.ToUpper(string(event.Severity)),
	})
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// RenderWeatherMessage builds the SMS body for a weather alert.
func RenderWeatherMessage(alert models.WeatherAlert, lang string) string {
	return fill(templatesFor(lang).weatherAlert, map[string]string{
		"weather_type": strings.ReplaceAll(alert.AlertType, "_", " "),
		"location":     alert.City,
		"description":  alert.Description,
	})
}

// RenderWelcomeMessage builds the registration confirmation.
func RenderWelcomeMessage(lang string) string {
	return templatesFor(lang).welcome
}
