package handler

// --- Request / Response types ---

type credentialsRequest struct {
	Username string `json:"username" validate:"max=128"`
	Password string `json:"password" validate:"max=1024"`
}

type loginResponse struct {
	Auth bool   `json:"auth"`
	Msg  string `json:"msg"`
}

type signupResponse struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

type questionResponse struct {
	Question string `json:"question"`
}

type answerRequest struct {
	Answer string `json:"answer" validate:"max=1024"`
}

type answerResponse struct {
	Correct  bool `json:"correct"`
	GameOver bool `json:"gameOver,omitempty"`
}

// errorResponse is the standard error envelope returned on 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}
