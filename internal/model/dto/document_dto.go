package dto

type CreateDocumentRequest struct {
	Title   string `form:"title" binding:"required,max=200"`
	Subject string `form:"subject" binding:"required,max=50"`
	Level   string `form:"level" binding:"required,max=50"`
	Year    int    `form:"year" binding:"omitempty,min=1990,max=2100"`
	Premium bool   `form:"premium"`
}

type DocumentInfo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	Level     string `json:"level"`
	Year      int    `json:"year"`
	FileURL   string `json:"file_url,omitempty"` // omitted on premium docs for non-premium users
	Premium   bool   `json:"premium"`
	CreatedAt string `json:"created_at"`
}

type ListDocumentsRequest struct {
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	Subject  string `form:"subject"`
	Level    string `form:"level"`
}
