package user

// User is one directory record. Lat/Lng are pointers: a user who has not
// shared location is distinct from one standing at (0,0).
type User struct {
	ID       int64    `db:"id" json:"user_id"`
	Username string   `db:"username" json:"username"`
	Nickname string   `db:"nickname" json:"nickname"`
	Lat      *float64 `db:"lat" json:"lat,omitempty"`
	Lng      *float64 `db:"lng" json:"lng,omitempty"`
}

func (u *User) HasLocation() bool {
	return u.Lat != nil && u.Lng != nil
}
