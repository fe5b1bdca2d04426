package api

// Wire types for the Gestora REST API. Older backend versions use
// alternate field names for several task attributes (createAt/endDate,
// a combined responsibles array); the DTOs carry both spellings and the
// mapper resolves them.

// loginResponse is returned by POST /auth/login. Some deployments name
// the credential field "jwt" instead of "token".
type loginResponse struct {
	Token string   `json:"token"`
	JWT   string   `json:"jwt"`
	User  *userDTO `json:"user"`
}

// userDTO is the wire shape of a user.
type userDTO struct {
	ID                 string `json:"id"`
	UserID             string `json:"userId"`
	Name               string `json:"name"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	Department         string `json:"department"`
	Position           string `json:"position"`
	Phone              string `json:"phone"`
	Avatar             string `json:"avatar"`
	MustChangePassword bool   `json:"mustChangePassword"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
}

// responsibleDTO is an entry of the combined responsibles array used by
// older backends: the first entry is the responsible user, the rest are
// co-assignees.
type responsibleDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// taskDTO is the wire shape of a task.
type taskDTO struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Status        string           `json:"status"`
	Priority      string           `json:"priority"`
	ResponsibleID string           `json:"responsibleId"`
	ResponsibleName string         `json:"responsibleName"`
	Responsibles  []responsibleDTO `json:"responsibles"`
	Intervenientes []string        `json:"intervenientes"`
	StartDate     string           `json:"startDate"`
	CreateAt      string           `json:"createAt"`
	DeliveryDate  string           `json:"deliveryDate"`
	EndDate       string           `json:"endDate"`
	DueDate       string           `json:"dueDate"`
	DaysToFinish  int              `json:"daysToFinish"`
	Comments      []commentDTO     `json:"comments"`
	CreatedByID   string           `json:"createdById"`
	CreatedByName string           `json:"createdByName"`
	CreatedAt     string           `json:"createdAt"`
	UpdatedAt     string           `json:"updatedAt"`
}

// commentDTO is the wire shape of a task comment.
type commentDTO struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Content    string `json:"content"`
	UserID     string `json:"userId"`
	AuthorID   string `json:"authorId"`
	UserName   string `json:"userName"`
	AuthorName string `json:"authorName"`
	TaskID     string `json:"taskId"`
	Timestamp  string `json:"timestamp"`
	CreatedAt  string `json:"createdAt"`
}

// notificationDTO is the wire shape of a notification.
type notificationDTO struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	TaskID    string `json:"taskId"`
	Read      bool   `json:"read"`
	Timestamp string `json:"timestamp"`
	CreatedAt string `json:"createdAt"`
}

// unreadCountResponse is returned by GET /notifications/count.
type unreadCountResponse struct {
	Count int `json:"count"`
}

// tokenValidationResponse is returned by the setup/reset token
// validation endpoints.
type tokenValidationResponse struct {
	Valid bool   `json:"valid"`
	Email string `json:"email"`
}

// TaskPayload is the request body for creating or updating a task.
type TaskPayload struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         string   `json:"status,omitempty"`
	Priority       string   `json:"priority,omitempty"`
	ResponsibleID  string   `json:"responsibleId"`
	Intervenientes []string `json:"intervenientes,omitempty"`
	StartDate      string   `json:"startDate,omitempty"`
	DueDate        string   `json:"dueDate,omitempty"`
	DaysToFinish   int      `json:"daysToFinish,omitempty"`
}

// UserPayload is the request body for creating or updating a user.
type UserPayload struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Password   string `json:"password,omitempty"`
}
