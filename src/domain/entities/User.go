package entities

type User struct {
	Key            string `json:"-"`
	UserName       string `json:"userName"`
	DisplayName    string `json:"displayName"`
	PreferredLang  string `json:"preferredLang"`
	EmailValidated bool   `json:"emailValidated"`
	TfaValidated   bool   `json:"tfaValidated"`
}

func UserFromEntity(e Entity) (User, error) {
	var user User
	if err := e.DecodeProperties(&user); err != nil {
		return User{}, err
	}
	user.Key = e.Key()
	return user, nil
}
