package dto

type AuditLogFilter struct {
	Model  string `form:"model"`
	Action string `form:"action" validate:"omitempty,oneof=create update delete login other"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type AuditLogResponse struct {
	ID        string  `json:"id"`
	UserID    *string `json:"user"`
	Username  *string `json:"username"`
	Action    string  `json:"action"`
	Model     string  `json:"model"`
	ObjectID  string  `json:"object_id"`
	Details   string  `json:"details"`
	Timestamp string  `json:"timestamp"`
}

type AuditLogListResponse struct {
	Data  []AuditLogResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
