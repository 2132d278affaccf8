package loans

type IssueRequest struct {
	StudentID int64 `json:"student_id" binding:"required"`
	BookID    int64 `json:"book_id" binding:"required"`
}

type LoanResponse struct {
	ID         int64   `json:"id"`
	ULID       string  `json:"ulid"`
	StudentID  int64   `json:"student_id"`
	BookID     int64   `json:"book_id"`
	IssueDate  string  `json:"issue_date"`
	DueDate    string  `json:"due_date"`
	ReturnDate *string `json:"return_date,omitempty"`
	Fine       int     `json:"fine"`
	Open       bool    `json:"open"`
	Renewed    bool    `json:"renewed"`
}

func toResponse(l *Loan) LoanResponse {
	resp := LoanResponse{
		ID:        l.ID,
		ULID:      l.ULID,
		StudentID: l.StudentID,
		BookID:    l.BookID,
		IssueDate: l.IssueDate.Format(dateLayout),
		DueDate:   l.DueDate.Format(dateLayout),
		Fine:      l.Fine,
		Open:      l.Open(),
		Renewed:   l.Renewed(),
	}
	if l.ReturnDate.Valid {
		val := l.ReturnDate.Time.Format(dateLayout)
		resp.ReturnDate = &val
	}
	return resp
}
