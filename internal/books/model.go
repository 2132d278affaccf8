package books

// Book is one catalog row. Quantity counts available copies; outside direct
// admin edits it is mutated only by the loan engine, which keeps it >= 0.
type Book struct {
	ID       int64
	Title    string
	Author   string
	Quantity int
}
