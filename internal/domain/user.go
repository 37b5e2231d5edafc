package domain

// User is an account that can authenticate and curate lists.
type User struct {
	Entity
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"is_admin"`
}

// CanManageList reports whether the user may mutate the given list.
func (u *User) CanManageList(l *List) bool {
	return u.IsAdmin || l.OwnerID == u.ID
}
