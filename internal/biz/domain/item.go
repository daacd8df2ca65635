package domain

// Item represents a catalog item entity
type Item struct {
	ID   int64
	Name string
}

// User represents a bot user entity
type User struct {
	ID       int64
	Username string
	Notified bool // whether the user receives stock notifications
}
