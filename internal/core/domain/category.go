package domain

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Nominees    []Nominee `json:"nominees"`
}

type Nominee struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Nominee looks up a nominee of the category by id.
func (c Category) Nominee(id string) (Nominee, bool) {
	for _, n := range c.Nominees {
		if n.ID == id {
			return n, true
		}
	}
	return Nominee{}, false
}
