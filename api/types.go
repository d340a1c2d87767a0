package api

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type RegisterRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	PreferredLanguage string `json:"preferred_language"`
}

type chatRequest struct {
	Message string `json:"message"`
	// Language is null when the user has not picked one.
	Language *string `json:"language"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Language string `json:"language"`
}

type nearbyRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Hospital struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address,omitempty"`
	Phone   string  `json:"phone,omitempty"`
}

type nearbyResponse struct {
	Hospitals []Hospital `json:"hospitals"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type forgotPasswordResponse struct {
	Message           string   `json:"message"`
	SecurityQuestions []string `json:"security_questions"`
}

type SecurityAnswers struct {
	PetName   string `json:"pet_name"`
	BirthCity string `json:"birth_city"`
}

type ResetPasswordRequest struct {
	Email           string          `json:"email"`
	SecurityAnswers SecurityAnswers `json:"security_answers"`
	NewPassword     string          `json:"new_password"`
}

// RemoteEntry is one exchange stored server-side for a logged-in user.
type RemoteEntry struct {
	ID        int    `json:"id"`
	Message   string `json:"message"`
	Response  string `json:"response"`
	Language  string `json:"language"`
	Timestamp string `json:"timestamp"`
}

type remoteHistoryResponse struct {
	ChatHistory []RemoteEntry `json:"chat_history"`
}

type errorBody struct {
	Detail any `json:"detail"`
}
