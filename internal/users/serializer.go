package users

// Public はクライアントへ返すユーザー表現です。パスワードハッシュは含みません。
type Public struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Serialize は User を Public に変換します。
func Serialize(user *User) (Public, error) {
	if user == nil {
		return Public{}, ErrNilUser
	}
	return Public{
		ID:       user.ID,
		Username: user.Username,
	}, nil
}
