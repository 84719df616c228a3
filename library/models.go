package library

// TimeFormat is the layout of every timestamp string stored in the catalog.
// The values are opaque to the store; they are only ever set and displayed.
const TimeFormat = "2006-01-02 15:04"

// Book represents a single catalog entry and its current lending state.
type Book struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Year       string `json:"year"`
	Available  bool   `json:"available"`
	Borrower   string `json:"borrower"`
	BorrowedAt string `json:"borrowed_at"`
	ReturnedAt string `json:"returned_at"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// clone returns an independent copy so callers can't mutate store state.
func (b *Book) clone() *Book {
	c := *b
	return &c
}

// Stats summarizes the catalog. Borrowed is always Total - Available.
type Stats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Borrowed  int `json:"borrowed"`
}

// catalogFile is the on-disk shape of the backing document.
type catalogFile struct {
	Books  []*Book `json:"books"`
	NextID int     `json:"next_id"`
}
