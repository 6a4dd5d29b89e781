package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// --- Request / Response types ---

type createEntryRequest struct {
	Name string `json:"name" validate:"required"`
}

type replaceEntryRequest struct {
	ID   int64  `json:"id"   validate:"required,gt=0"`
	Name string `json:"name" validate:"required"`
}

type entryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type pageResponse struct {
	Content          []entryResponse `json:"content"`
	TotalElements    int64           `json:"totalElements"`
	TotalPages       int             `json:"totalPages"`
	Number           int             `json:"number"`
	Size             int             `json:"size"`
	NumberOfElements int             `json:"numberOfElements"`
	First            bool            `json:"first"`
	Last             bool            `json:"last"`
	Empty            bool            `json:"empty"`
}

type tokenResponse struct {
	Token       string   `json:"token"`
	ExpiresAt   string   `json:"expires_at"`
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}
