package domain

// Collection is an asset collection the marketplace accepts listings for.
type Collection struct {
	Address   string
	Name      string
	Active    bool
	CreatedAt int64
}

func NewCollection(address, name string, active bool, now int64) (*Collection, error) {
	if len(address) <= 0 {
		return nil, ErrInvalidCollection
	}
	return &Collection{
		Address:   address,
		Name:      name,
		Active:    active,
		CreatedAt: now,
	}, nil
}

// IsActive returns whether new listings are accepted for the collection.
func (c *Collection) IsActive() bool {
	return c.Active
}

func (c *Collection) Activate() {
	c.Active = true
}

func (c *Collection) Deactivate() {
	c.Active = false
}
