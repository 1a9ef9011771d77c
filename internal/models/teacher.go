package models

// Teacher is a staff account allowed to manage activity rosters. Entries
// come from the users file; Password is compared verbatim, PasswordHash
// (bcrypt) is used instead when present.
type Teacher struct {
	Username     string `json:"username"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"password_hash,omitempty"`
	Name         string `json:"name"`
}

// TeacherDirectory mirrors the users file layout.
type TeacherDirectory struct {
	Teachers []Teacher `json:"teachers"`
}

// Info strips credentials for responses.
func (t Teacher) Info() UserInfo {
	return UserInfo{Username: t.Username, Name: t.Name}
}
