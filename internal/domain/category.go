package domain

// Category groups transactions for reporting. It never owns them.
type Category struct {
	ID     string
	UserID string
	Name   string
	Kind   Kind
	Icon   string
	Color  string
}

func (c *Category) OwnedBy(userID string) bool {
	return c.UserID == userID
}
