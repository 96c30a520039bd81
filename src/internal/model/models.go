package model

// Document is the root persisted object. The whole document is replaced on
// every write; collections are never persisted separately.
type Document struct {
	Users   []User   `json:"users"`
	Teams   []Team   `json:"teams"`
	Tickets []Ticket `json:"tickets"`
}

// EmptyDocument returns a Document with non-nil empty collections, the shape
// Load yields when nothing has been persisted yet.
func EmptyDocument() Document {
	return Document{
		Users:   []User{},
		Teams:   []Team{},
		Tickets: []Ticket{},
	}
}

type User struct {
	UserID      int    `json:"userId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	EmailID     string `json:"emailId"`
	PhoneNumber string `json:"phoneNumber"`
	EmployeeID  string `json:"employeeId"`
	Designation string `json:"designation"`
	TeamID      int    `json:"teamId"`
}

type Team struct {
	TeamID   int      `json:"teamId"`
	TeamName string   `json:"teamName"`
	Members  []string `json:"members"`
}

type Ticket struct {
	TicketID    int    `json:"ticketId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Team        string `json:"team"`
	Status      string `json:"status"`
	Assignee    string `json:"assignee"`
	Reporter    string `json:"reporter"`
}

// Credential lives in its own store, separate from the Document. The password
// is stored and compared as plaintext.
type Credential struct {
	UserID   int    `json:"userId"`
	EmailID  string `json:"emailId"`
	Password string `json:"password"`
}

type AppError string

func (e AppError) Error() string { return string(e) }
