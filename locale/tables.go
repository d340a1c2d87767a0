package locale

// tables holds one complete record per concrete locale. Auto is resolved
// before lookup and never appears as a key.
var tables = map[Language]Strings{
	English: {
		Greeting:          "Hello! I'm NAYAM AI, your medical assistant. How can I help you today?",
		ChatError:         "Sorry, I encountered an error. Please try again.",
		ClearConfirm:      "Are you sure you want to clear the chat history?",
		Placeholder:       "Type your health concern...",
		Nearby:            "Nearby Hospitals",
		Clear:             "Clear Chat",
		Login:             "Login",
		Welcome:           "Welcome to NAYAM AI",
		Email:             "Email",
		Password:          "Password",
		Register:          "Register",
		LoginTab:          "Login",
		RegisterTab:       "Register",
		HospitalsTitle:    "Nearby Hospitals",
		YourLocation:      "Your Location",
		ChatHistory:       "Chat History",
		Logout:            "Logout",
		ResetPassword:     "Reset Password",
		ForgotPassword:    "Forgot Password?",
		BackToLogin:       "Back to Login",
		ClearAllHistory:   "Clear All History",
		ExportHistory:     "Export History",
		NoChatHistory:     "No chat history available",
		SecurityQuestion1: "What was your first pet's name?",
		SecurityQuestion2: "What city were you born in?",
		NewPassword:       "New Password",
		ConfirmPassword:   "Confirm New Password",
	},
	Tamil: {
		Greeting:          "வணக்கம்! நான் நயம் AI, உங்கள் மருத்துவ உதவியாளர். இன்று நான் உங்களுக்கு எவ்வாறு உதவ முடியும்?",
		ChatError:         "மன்னிக்கவும், பிழை ஏற்பட்டது. தயவு செய்து மீண்டும் முயற்சிக்கவும்.",
		ClearConfirm:      "உரையாடல் வரலாற்றை அழிக்க விரும்புகிறீர்களா?",
		Placeholder:       "உங்கள் உடல்நலக் கவலையை தட்டச்சு செய்க...",
		Nearby:            "அருகிலுள்ள மருத்துவமனைகள்",
		Clear:             "உரையாடலை அழி",
		Login:             "உள்நுழைக",
		Welcome:           "நயம் AI இல் வரவேற்கிறோம்",
		Email:             "மின்னஞ்சல்",
		Password:          "கடவுச்சொல்",
		Register:          "பதிவு செய்க",
		LoginTab:          "உள்நுழைக",
		RegisterTab:       "பதிவு செய்க",
		HospitalsTitle:    "அருகிலுள்ள மருத்துவமனைகள்",
		YourLocation:      "உங்கள் இடம்",
		ChatHistory:       "உரையாடல் வரலாறு",
		Logout:            "வெளியேறு",
		ResetPassword:     "கடவுச்சொல்லை மீட்டமைக்க",
		ForgotPassword:    "கடவுச்சொல் மறந்துவிட்டதா?",
		BackToLogin:       "உள்நுழைக்கு திரும்பு",
		ClearAllHistory:   "அனைத்து வரலாற்றையும் அழி",
		ExportHistory:     "வரலாற்றை ஏற்றுமதி செய்க",
		NoChatHistory:     "உரையாடல் வரலாறு இல்லை",
		SecurityQuestion1: "உங்கள் முதல் செல்லப்பிராணியின் பெயர் என்ன?",
		SecurityQuestion2: "நீங்கள் பிறந்த நகரம் எது?",
		NewPassword:       "புதிய கடவுச்சொல்",
		ConfirmPassword:   "புதிய கடவுச்சொல்லை உறுதிப்படுத்துக",
	},
	Hindi: {
		Greeting:          "नमस्ते! मैं NAYAM AI हूं, आपकी चिकित्सा सहायक। आज मैं आपकी कैसे मदद कर सकता हूं?",
		ChatError:         "क्षमा करें, एक त्रुटि हुई। कृपया पुनः प्रयास करें।",
		ClearConfirm:      "क्या आप वाकई चैट इतिहास साफ करना चाहते हैं?",
		Placeholder:       "अपनी स्वास्थ्य चिंता टाइप करें...",
		Nearby:            "आसपास के अस्पताल",
		Clear:             "चैट साफ करें",
		Login:             "लॉगिन",
		Welcome:           "NAYAM AI में आपका स्वागत है",
		Email:             "ईमेल",
		Password:          "पासवर्ड",
		Register:          "रजिस्टर करें",
		LoginTab:          "लॉगिन",
		RegisterTab:       "रजिस्टर करें",
		HospitalsTitle:    "आसपास के अस्पताल",
		YourLocation:      "आपका स्थान",
		ChatHistory:       "चैट इतिहास",
		Logout:            "लॉगआउट",
		ResetPassword:     "पासवर्ड रीसेट करें",
		ForgotPassword:    "पासवर्ड भूल गए?",
		BackToLogin:       "लॉगिन पर वापस जाएं",
		ClearAllHistory:   "सभी इतिहास साफ करें",
		ExportHistory:     "इतिहास निर्यात करें",
		NoChatHistory:     "कोई चैट इतिहास उपलब्ध नहीं है",
		SecurityQuestion1: "आपके पहले पालतू जानवर का नाम क्या था?",
		SecurityQuestion2: "आप किस शहर में पैदा हुए थे?",
		NewPassword:       "नया पासवर्ड",
		ConfirmPassword:   "नए पासवर्ड की पुष्टि करें",
	},
	Telugu: {
		Greeting:          "నమస్కారం! నేను నయం AI, మీ వైద్య సహాయకుడిని. ఈరోజు నేను మీకు ఎలా సహాయం చేయగలను?",
		ChatError:         "క్షమించండి, ఒక లోపం ఏర్పడింది. దయచేసి మళ్లీ ప్రయత్నించండి.",
		ClearConfirm:      "మీరు నిజంగా చాట్ చరిత్రను క్లియర్ చేయాలనుకుంటున్నారా?",
		Placeholder:       "మీ ఆరోగ్య ఆందోళనను టైప్ చేయండి...",
		Nearby:            "సమీప ఆసుపత్రులు",
		Clear:             "చాట్ క్లియర్ చేయండి",
		Login:             "లాగిన్",
		Welcome:           "NAYAM AI కు స్వాగతం",
		Email:             "ఇమెయిల్",
		Password:          "పాస్వర్డ్",
		Register:          "నమోదు చేసుకోండి",
		LoginTab:          "లాగిన్",
		RegisterTab:       "నమోదు చేసుకోండి",
		HospitalsTitle:    "సమీప ఆసుపత్రులు",
		YourLocation:      "మీ స్థానం",
		ChatHistory:       "చాట్ చరిత్ర",
		Logout:            "లాగ్అవుట్",
		ResetPassword:     "పాస్వర్డ్ రీసెట్ చేయండి",
		ForgotPassword:    "పాస్వర్డ్ మర్చిపోయారా?",
		BackToLogin:       "లాగిన్‌కు తిరిగి వెళ్ళండి",
		ClearAllHistory:   "అన్ని చరిత్రను క్లియర్ చేయండి",
		ExportHistory:     "చరిత్రను ఎగుమతి చేయండి",
		NoChatHistory:     "చాట్ చరిత్ర లేదు",
		SecurityQuestion1: "మీ మొదటి పెంపుడు జంతువు పేరు ఏమిటి?",
		SecurityQuestion2: "మీరు జన్మించిన నగరం ఏది?",
		NewPassword:       "కొత్త పాస్వర్డ్",
		ConfirmPassword:   "కొత్త పాస్వర్డ్‌ని నిర్ధారించండి",
	},
	Malayalam: {
		Greeting:          "നമസ്കാരം! ഞാൻ നയം AI ആണ്, നിങ്ങളുടെ മെഡിക്കൽ അസിസ്റ്റന്റ്. ഇന്ന് എനിക്ക് നിങ്ങളെ എങ്ങനെ സഹായിക്കാനാകും?",
		ChatError:         "ക്ഷമിക്കണം, ഒരു പിശക് സംഭവിച്ചു. ദയവായി വീണ്ടും ശ്രമിക്കുക.",
		ClearConfirm:      "ചാറ്റ് ചരിത്രം മായ്ച്ചുകളയാൻ നിങ്ങൾക്ക് തീർച്ചയായും താൽപ്പര്യമുണ്ടോ?",
		Placeholder:       "നിങ്ങളുടെ ആരോഗ്യക്കുറിച്ചുള്ള ആശങ്ക ടൈപ്പ് ചെയ്യുക...",
		Nearby:            "സമീപത്തെ ആശുപത്രികൾ",
		Clear:             "ചാറ്റ് മായ്ക്കുക",
		Login:             "ലോഗിൻ",
		Welcome:           "NAYAM AI ലേക്ക് സ്വാഗതം",
		Email:             "ഇമെയിൽ",
		Password:          "പാസ്വേഡ്",
		Register:          "രജിസ്റ്റർ ചെയ്യുക",
		LoginTab:          "ലോഗിൻ",
		RegisterTab:       "രജിസ്റ്റർ ചെയ്യുക",
		HospitalsTitle:    "സമീപത്തെ ആശുപത്രികൾ",
		YourLocation:      "നിങ്ങളുടെ സ്ഥാനം",
		ChatHistory:       "ചാറ്റ് ചരിത്രം",
		Logout:            "ലോഗൗട്ട്",
		ResetPassword:     "പാസ്വേഡ് റീസെറ്റ് ചെയ്യുക",
		ForgotPassword:    "പാസ്വേഡ് മറന്നോ?",
		BackToLogin:       "ലോഗിനിലേക്ക് മടങ്ങുക",
		ClearAllHistory:   "എല്ലാ ചരിത്രവും മായ്ക്കുക",
		ExportHistory:     "ചരിത്രം എക്‌സ്‌പോർട്ട് ചെയ്യുക",
		NoChatHistory:     "ചാറ്റ് ചരിത്രം ലഭ്യമല്ല",
		SecurityQuestion1: "നിങ്ങളുടെ ആദ്യത്തെ വളർത്തുമൃഗത്തിന്റെ പേര് എന്തായിരുന്നു?",
		SecurityQuestion2: "നിങ്ങൾ ജനിച്ച നഗരം ഏതാണ്?",
		NewPassword:       "പുതിയ പാസ്‌വേഡ്",
		ConfirmPassword:   "പുതിയ പാസ്‌വേഡ് സ്ഥിരീകരിക്കുക",
	},
	Kannada: {
		Greeting:          "ನಮಸ್ಕಾರ! ನಾನು ನಯಂ AI, ನಿಮ್ಮ ವೈದ್ಯಕೀಯ ಸಹಾಯಕ. ಇಂದು ನಾನು ನಿಮಗೆ ಹೇಗೆ ಸಹಾಯ ಮಾಡಬಹುದು?",
		ChatError:         "ಕ್ಷಮಿಸಿ, ದೋಷ ಸಂಭವಿಸಿದೆ. ದಯವಿಟ್ಟು ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ.",
		ClearConfirm:      "ಚಾಟ್ ಇತಿಹಾಸವನ್ನು ಅಳಿಸಿಹಾಕಲು ನೀವು ಖಚಿತವಾಗಿ ಬಯಸುವಿರಾ?",
		Placeholder:       "ನಿಮ್ಮ ಆರೋಗ್ಯ ಕಾಳಜಿಯನ್ನು ಟೈಪ್ ಮಾಡಿ...",
		Nearby:            "ಹತ್ತಿರದ ಆಸ್ಪತ್ರೆಗಳು",
		Clear:             "ಚಾಟ್ ಅಳಿಸಿ",
		Login:             "ಲಾಗಿನ್",
		Welcome:           "NAYAM AI ಗೆ ಸ್ವಾಗತ",
		Email:             "ಇಮೇಲ್",
		Password:          "ಪಾಸ್ವರ್ಡ್",
		Register:          "ನೋಂದಾಯಿಸಿ",
		LoginTab:          "ಲಾಗಿನ್",
		RegisterTab:       "ನೋಂದಾಯಿಸಿ",
		HospitalsTitle:    "ಹತ್ತಿರದ ಆಸ್ಪತ್ರೆಗಳು",
		YourLocation:      "ನಿಮ್ಮ ಸ್ಥಳ",
		ChatHistory:       "ಚಾಟ್ ಇತಿಹಾಸ",
		Logout:            "ಲಾಗ್ ಔಟ್",
		ResetPassword:     "ಪಾಸ್ವರ್ಡ್ ಮರುಹೊಂದಿಸಿ",
		ForgotPassword:    "ಪಾಸ್ವರ್ಡ್ ಮರೆತಿರಾ?",
		BackToLogin:       "ಲಾಗಿನ್‌ಗೆ ಹಿಂತಿರುಗಿ",
		ClearAllHistory:   "ಎಲ್ಲಾ ಇತಿಹಾಸವನ್ನು ಅಳಿಸಿ",
		ExportHistory:     "ಇತಿಹಾಸವನ್ನು ರಫ್ತು ಮಾಡಿ",
		NoChatHistory:     "ಚಾಟ್ ಇತಿಹಾಸ ಲಭ್ಯವಿಲ್ಲ",
		SecurityQuestion1: "ನಿಮ್ಮ ಮೊದಲ ಸಾಕುಪ್ರಾಣಿಯ ಹೆಸರೇನು?",
		SecurityQuestion2: "ನೀವು ಜನಿಸಿದ ನಗರ ಯಾವುದು?",
		NewPassword:       "ಹೊಸ ಪಾಸ್ವರ್ಡ್",
		ConfirmPassword:   "ಹೊಸ ಪಾಸ್ವರ್ಡ್ ಅನ್ನು ದೃಢೀಕರಿಸಿ",
	},
}
