package books

type CreateBookRequest struct {
	Title    string `json:"title" binding:"required"`
	Author   string `json:"author" binding:"required"`
	Quantity *int   `json:"quantity" binding:"required"`
}

type UpdateBookRequest struct {
	Title    string `json:"title" binding:"required"`
	Author   string `json:"author" binding:"required"`
	Quantity *int   `json:"quantity" binding:"required"`
}

type BookResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Quantity int    `json:"quantity"`
}

func toResponse(b *Book) BookResponse {
	return BookResponse{ID: b.ID, Title: b.Title, Author: b.Author, Quantity: b.Quantity}
}
